package boxtree

import (
	gomp4 "github.com/abema/go-mp4"
)

// box types that are not exposed by go-mp4 under a constructor.
var (
	TypeStpp = gomp4.StrToBoxType("stpp")
	TypeWvtt = gomp4.StrToBoxType("wvtt")
	TypeTx3g = gomp4.StrToBoxType("tx3g")
	TypeSbtt = gomp4.StrToBoxType("sbtt")
	TypeAvc3 = gomp4.StrToBoxType("avc3")
	TypeHev1 = gomp4.StrToBoxType("hev1")
	TypeHvc1 = gomp4.StrToBoxType("hvc1")
	TypeAv01 = gomp4.StrToBoxType("av01")
	TypeVp09 = gomp4.StrToBoxType("vp09")
	TypeOpus = gomp4.StrToBoxType("Opus")
	TypeAc3  = gomp4.StrToBoxType("ac-3")
	TypeEc3  = gomp4.StrToBoxType("ec-3")
	TypeEncv = gomp4.StrToBoxType("encv")
	TypeEnca = gomp4.StrToBoxType("enca")
	TypeNmhd = gomp4.StrToBoxType("nmhd")
	TypeSthd = gomp4.StrToBoxType("sthd")
	TypeSubs = gomp4.StrToBoxType("subs")
	TypeStyp = gomp4.StrToBoxType("styp")
	TypeSidx = gomp4.StrToBoxType("sidx")
	TypeMeta = gomp4.StrToBoxType("meta")
	TypeUdta = gomp4.StrToBoxType("udta")
	TypeEdts = gomp4.StrToBoxType("edts")
	TypeMfra = gomp4.StrToBoxType("mfra")
	TypeUUID = gomp4.StrToBoxType("uuid")
)

const (
	sampleEntryHeaderSize = 8
	visualSampleEntrySize = sampleEntryHeaderSize + 70
	audioSampleEntrySize  = sampleEntryHeaderSize + 20
)

// IsContainer returns whether boxes of the given type contain child boxes.
func IsContainer(t gomp4.BoxType) bool {
	switch t {
	case gomp4.BoxTypeMoov(), gomp4.BoxTypeTrak(), gomp4.BoxTypeMdia(), gomp4.BoxTypeMinf(),
		gomp4.BoxTypeStbl(), gomp4.BoxTypeDinf(), gomp4.BoxTypeDref(), gomp4.BoxTypeStsd(),
		gomp4.BoxTypeMvex(), gomp4.BoxTypeMoof(), gomp4.BoxTypeTraf(),
		TypeEdts, TypeUdta, TypeMfra, TypeMeta:
		return true
	}

	return isVisualSampleEntry(t) || isAudioSampleEntry(t) || t == TypeStpp || t == TypeWvtt
}

func isVisualSampleEntry(t gomp4.BoxType) bool {
	switch t {
	case gomp4.BoxTypeAvc1(), TypeAvc3, TypeHev1, TypeHvc1, TypeAv01, TypeVp09, TypeEncv:
		return true
	}
	return false
}

func isAudioSampleEntry(t gomp4.BoxType) bool {
	switch t {
	case gomp4.BoxTypeMp4a(), TypeOpus, TypeAc3, TypeEc3, TypeEnca:
		return true
	}
	return false
}
