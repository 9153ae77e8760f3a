// Package splitter breaks source text into bounded chunks for embedding.
// Splitting happens on newline boundaries; a short overlap is carried from
// the tail of each chunk into the head of the next so that context is not
// lost at a split point.
package splitter

import "strings"

// Config controls chunk sizing.
type Config struct {
	ChunkSize    int // Maximum chunk length in characters.
	ChunkOverlap int // Trailing characters of a chunk repeated at the head of the next.
}

// DefaultConfig returns the sizing used by the document indexer.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    500,
		ChunkOverlap: 15,
	}
}

// Split divides text into chunks of at most cfg.ChunkSize characters.
// Segments are formed by splitting on "\n" and packed greedily; when a chunk
// is flushed, the last cfg.ChunkOverlap characters are prepended to the next
// chunk. A single segment longer than ChunkSize is hard-split with a stride
// of ChunkSize-ChunkOverlap, so each piece after the first starts with the
// tail of the previous one.
func Split(text string, cfg Config) []string {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 0
	}

	var chunks []string
	var current strings.Builder

	flush := func() string {
		if current.Len() == 0 {
			return ""
		}
		chunk := current.String()
		chunks = append(chunks, chunk)
		current.Reset()
		return overlapTail(chunk, cfg.ChunkOverlap)
	}

	for _, segment := range strings.Split(text, "\n") {
		segment = strings.TrimRight(segment, "\r")
		if strings.TrimSpace(segment) == "" {
			continue
		}

		if len(segment) > cfg.ChunkSize {
			// Oversized segment: flush what we have, then hard-split it.
			flush()
			chunks = append(chunks, splitLong(segment, cfg)...)
			continue
		}

		// +1 for the joining newline.
		if current.Len() > 0 && current.Len()+1+len(segment) > cfg.ChunkSize {
			carry := flush()
			if carry != "" {
				current.WriteString(carry)
			}
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(segment)
	}

	flush()
	return chunks
}

// splitLong breaks a single over-long segment into ChunkSize windows that
// step by ChunkSize-ChunkOverlap characters.
func splitLong(segment string, cfg Config) []string {
	stride := cfg.ChunkSize - cfg.ChunkOverlap
	var parts []string
	for start := 0; start < len(segment); start += stride {
		end := start + cfg.ChunkSize
		if end > len(segment) {
			end = len(segment)
		}
		parts = append(parts, segment[start:end])
		if end == len(segment) {
			break
		}
	}
	return parts
}

// overlapTail returns up to n trailing characters of chunk.
func overlapTail(chunk string, n int) string {
	if n <= 0 || len(chunk) <= n {
		return ""
	}
	return chunk[len(chunk)-n:]
}
