package framing

// Parser accumulates stream bytes and yields whole frames. Re-entrant:
// Feed/Next can be called as bytes trickle in from any I/O model. Not safe
// for concurrent use.
type Parser struct {
	buf []byte
}

// Feed appends raw bytes from the stream.
func (p *Parser) Feed(data []byte) {
	p.buf = append(p.buf, data...)
}

// Next returns the next complete frame, or ErrIncompleteFrame if the
// buffered bytes do not yet hold one. Buffered bytes are only consumed on
// success.
func (p *Parser) Next() (Frame, error) {
	f, rest, err := Decode(p.buf)
	if err != nil {
		return Frame{}, err
	}
	// shift remainder to the front so the buffer does not pin old frames
	n := copy(p.buf, rest)
	p.buf = p.buf[:n]
	return f, nil
}

// Buffered reports how many unparsed bytes are pending.
func (p *Parser) Buffered() int { return len(p.buf) }
