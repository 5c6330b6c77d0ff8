package agent

import (
	"iter"

	"legal-assistant/llm"
	"legal-assistant/llm/textclean"
)

// NoResponseText replaces an empty final answer
const NoResponseText = "I did not get a response."

// Reply is the answer accumulated so far. Each chunk yields a new value.
type Reply struct {
	Raw        string
	References []llm.Reference
}

// Display is the cleaned text to show for this reply
func (r Reply) Display() string {
	return textclean.Clean(r.Raw)
}

// Final is Display with the no-response placeholder for empty answers
func (r Reply) Final() string {
	if text := r.Display(); text != "" {
		return text
	}
	return NoResponseText
}

func (r Reply) next(chunk *llm.Chunk) Reply {
	out := Reply{Raw: r.Raw + chunk.TextDelta, References: r.References}
	if chunk.References != nil {
		out.References = append([]llm.Reference(nil), chunk.References...)
	}
	return out
}

// foldStream consumes seq in order, calling emit with every intermediate
// reply. References seen later replace earlier ones. The stream is aborted
// by the first error.
func foldStream(seq iter.Seq2[*llm.Chunk, error], emit func(Reply)) (Reply, error) {
	var acc Reply
	for chunk, err := range seq {
		if err != nil {
			return acc, err
		}
		if chunk == nil {
			continue
		}
		acc = acc.next(chunk)
		if emit != nil {
			emit(acc)
		}
	}
	return acc, nil
}
