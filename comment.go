package frame

// MaxCommentLen is the longest content a STRING<2> comment field can hold:
// the 2-byte length prefix counts the terminating null, so 0xFFFF-1 content
// bytes is the ceiling.
const MaxCommentLen = 0xFFFF - 1

// AppendComment concatenates addition onto existing with a single newline
// separator and truncates the result to at most maxLen-1 bytes, reserving
// the byte maxLen itself leaves for the wire STRING<2> terminating null. If
// addition is byte-identical to existing, existing is returned unchanged;
// an addition that repeats only the last line of existing is still
// appended.
func AppendComment(existing, addition string, maxLen int) string {
	if addition == existing {
		return existing
	}
	var combined string
	if existing == "" {
		combined = addition
	} else {
		combined = existing + "\n" + addition
	}
	if limit := maxLen - 1; len(combined) > limit {
		combined = combined[:limit]
	}
	return combined
}
