package pipeline

import (
	"fmt"

	"subextract/internal/model"
	"subextract/internal/streams"
	"subextract/internal/util/media"
)

// ResolvePlan decides how one stream becomes an output file.
// ocrReady is true when OCR is enabled and a template is configured.
func ResolvePlan(file model.MediaFile, st model.StreamDescriptor, s model.Settings, ocrReady bool) model.Plan {
	codec := st.Codec
	var p model.Plan

	switch {
	case s.Format == model.FormatCopy:
		p.Method, p.Codec = model.MethodDirectCopy, "copy"
		switch codec {
		case "subrip", "srt":
			p.Ext = ".srt"
		case "ass":
			p.Ext = ".ass"
		case "webvtt", "vtt":
			p.Ext = ".vtt"
		case "mov_text":
			// mp4 timed text has no useful raw container
			p.Method, p.Codec, p.Ext = model.MethodDirectConvert, "srt", ".srt"
		default:
			if streams.IsImageCodec(codec) {
				p.Ext = s.ImageExtension(codec)
			} else {
				p.Ext = "." + codec
			}
		}

	case s.Format.IsText():
		p.Ext = "." + string(s.Format)
		if streams.IsImageCodec(codec) {
			if !ocrReady {
				return model.Plan{
					Method: model.MethodSkip,
					Reason: fmt.Sprintf("image-based %s cannot become %s without OCR; use copy or configure OCR", codec, s.Format),
				}
			}
			p.Method, p.Codec = model.MethodOCR, s.Format.Encoder()
		} else {
			p.Method, p.Codec = model.MethodDirectConvert, s.Format.Encoder()
		}

	default:
		return model.Plan{
			Method: model.MethodSkip,
			Reason: fmt.Sprintf("unexpected output format %q", s.Format),
		}
	}

	p.OutputPath = media.SubtitlePath(file, st, p.Ext)
	return p
}

// isUnknownCopy reports whether a copy plan keeps a codec we do not recognize.
func isUnknownCopy(p model.Plan, codec string) bool {
	if p.Method != model.MethodDirectCopy || streams.IsImageCodec(codec) {
		return false
	}
	switch codec {
	case "subrip", "srt", "ass", "webvtt", "vtt":
		return false
	}
	return true
}
