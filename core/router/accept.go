package router

import (
	"strconv"
	"strings"
)

// maxAcceptHeaderLength caps how much of the Accept header is parsed.
// RFC 7231 sets no limit, but 4KB is generous for legitimate headers
// while preventing memory exhaustion from malicious requests.
const maxAcceptHeaderLength = 4096

// mediaRange is a parsed Accept header entry with its quality value.
type mediaRange struct {
	typ     string
	subtype string
	quality float64
}

// NegotiateMediaType parses an Accept header and returns the most
// acceptable media type from the available list, honoring quality
// values and `type/*` / `*/*` ranges. More specific ranges take
// precedence over wildcards for the same type, and the available list's
// order breaks quality ties (server preference). An empty header
// accepts everything, returning the first available type. Returns ""
// when nothing is acceptable.
func NegotiateMediaType(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}

	if header == "" {
		return available[0]
	}

	ranges := parseAccept(header)
	if len(ranges) == 0 {
		return available[0]
	}

	var best string
	var bestQuality float64

	for _, avail := range available {
		typ, subtype, ok := strings.Cut(strings.ToLower(avail), "/")
		if !ok {
			continue
		}

		quality := 0.0
		specificity := -1
		for _, r := range ranges {
			s := r.match(typ, subtype)
			if s > specificity {
				specificity = s
				quality = r.quality
			}
		}

		if specificity < 0 {
			continue
		}

		// Strictly greater keeps earlier available entries on ties.
		if quality > bestQuality {
			bestQuality = quality
			best = avail
		}
	}

	return best
}

// match reports how specifically the range covers type/subtype:
// 2 for an exact match, 1 for `type/*`, 0 for `*/*`, -1 for no match.
func (r mediaRange) match(typ, subtype string) int {
	switch {
	case r.typ == typ && r.subtype == subtype:
		return 2
	case r.typ == typ && r.subtype == "*":
		return 1
	case r.typ == "*" && r.subtype == "*":
		return 0
	default:
		return -1
	}
}

// parseAccept parses an Accept header into media ranges with quality
// values. Malformed entries are skipped rather than failing the request.
func parseAccept(header string) []mediaRange {
	if len(header) > maxAcceptHeaderLength {
		header = header[:maxAcceptHeaderLength]
	}

	var ranges []mediaRange

	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		quality := 1.0
		mediaPart := part

		// Only the q parameter matters for negotiation; other media
		// type parameters are ignored.
		if idx := strings.IndexByte(part, ';'); idx != -1 {
			mediaPart = strings.TrimSpace(part[:idx])
			for _, param := range strings.Split(part[idx+1:], ";") {
				param = strings.TrimSpace(param)
				if strings.HasPrefix(param, "q=") {
					if q, err := strconv.ParseFloat(param[2:], 64); err == nil && q >= 0 && q <= 1 {
						quality = q
					}
					break
				}
			}
		}

		if mediaPart == "*" {
			mediaPart = "*/*"
		}

		typ, subtype, ok := strings.Cut(strings.ToLower(mediaPart), "/")
		if !ok || typ == "" || subtype == "" {
			continue
		}

		ranges = append(ranges, mediaRange{typ: typ, subtype: subtype, quality: quality})
	}

	return ranges
}
