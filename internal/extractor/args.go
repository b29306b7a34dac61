package extractor

// BuildProbeArgs lists subtitle streams as "index,codec_type,codec_name[,language]".
func BuildProbeArgs(input string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "stream=index,codec_type,codec_name:stream_tags=language",
		"-select_streams", "s",
		"-of", "csv=p=0",
		input,
	}
}

// BuildLanguageProbeArgs lists subtitle language tags, one per line.
func BuildLanguageProbeArgs(input string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "stream_tags=language",
		"-select_streams", "s",
		"-of", "csv=p=0",
		input,
	}
}

// BuildExtractArgs maps one stream of input to output with the given
// subtitle codec. includeProgress adds machine-readable progress on stdout.
func BuildExtractArgs(input, streamIndex, codec, output string, includeProgress bool) []string {
	args := []string{
		"-y",
		"-analyzeduration", "100M",
		"-probesize", "100M",
		"-i", input,
		"-map", "0:" + streamIndex,
		"-c:s", codec,
	}
	if includeProgress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return append(args, output)
}
