package test

import (
	"fmt"
	"strings"
	"time"
)

// TTMLNamespace is the namespace of TTML documents.
const TTMLNamespace = "http://www.w3.org/ns/ttml"

// CueDuration is the duration of cues generated by TTMLDocument.
const CueDuration = 500 * time.Millisecond

func clockTime(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3600000, (ms/60000)%60, (ms/1000)%60, ms%1000)
}

// TTMLDocument returns a TTML document with count cues.
// Cue i starts at start + i seconds and lasts CueDuration.
func TTMLDocument(start time.Duration, count int) []byte {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<tt xmlns="` + TTMLNamespace + `" xmlns:tts="http://www.w3.org/ns/ttml#styling" xml:lang="en">` + "\n")
	b.WriteString(`  <head><layout><region xml:id="r0" tts:origin="10% 80%" tts:extent="80% 20%"/></layout></head>` + "\n")
	b.WriteString(`  <body region="r0"><div>` + "\n")

	for i := 0; i < count; i++ {
		begin := start + time.Duration(i)*time.Second
		fmt.Fprintf(&b, `    <p begin="%s" end="%s">cue %d</p>`+"\n",
			clockTime(begin), clockTime(begin+CueDuration), i)
	}

	b.WriteString("  </div></body>\n</tt>\n")

	return []byte(b.String())
}
