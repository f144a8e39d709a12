// Package recap renders weekly recap text from a selection set by
// deterministic template filling. The same selection always produces the same
// bytes; nothing is inferred or paraphrased.
package recap
