package audio

// ConcatenateBase64 merges independently synthesized base64 PCM chunks into
// one base64 PCM stream. Chunk bytes are appended in input order with no
// boundary markers; any pause between chunks must already be encoded by the
// synthesis upstream. An empty input yields an empty result.
func ConcatenateBase64(chunks []string) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}

	var merged []byte
	for _, chunk := range chunks {
		data, err := DecodeBase64(chunk)
		if err != nil {
			return "", err
		}
		merged = append(merged, data...)
	}

	return EncodeBase64(merged), nil
}
