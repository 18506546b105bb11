// Package sprot locates complete <entry>...</entry> records in a UniProt/SwissProt
// XML dump without parsing the XML
//
// Design choices:
// - Read through io.ReaderAt into one fixed buffer (10MB default) so memory stays flat on multi-GB dumps.
// - Search tags with bytes.Index; an entry is the bytes from its start tag through its end tag.
// - When an entry crosses the end of the buffer, rewind to its start tag and refill from there.
// - Keep len(start)-1 tail bytes when a window has no start tag so a tag split by the boundary is seen on the next read.
// - Emitted entries alias the buffer and are only valid during the callback.
// - An entry that cannot fit in the buffer, or that is cut off by EOF, is fatal.
package sprot
