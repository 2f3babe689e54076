package model

// Piece is a single piece on the board. ID is unique and stable for the
// piece's whole life, including its time in a graveyard.
//
// Tags hold ephemeral, plugin-owned state keyed by plugin-chosen strings
// (countdowns, consumed-once markers). A piece with no active tag must carry
// a nil map; RemoveTag drops the map once the last key is gone.
type Piece struct {
	ID       int            `json:"id"`
	Type     PieceType      `json:"type"`
	Color    Color          `json:"color"`
	Position Position       `json:"position"`
	HasMoved bool           `json:"hasMoved"`
	Tags     map[string]any `json:"tags,omitempty"`
}

func (p *Piece) SetTag(key string, value any) {
	if p.Tags == nil {
		p.Tags = make(map[string]any)
	}
	p.Tags[key] = value
}

func (p *Piece) Tag(key string) (any, bool) {
	v, ok := p.Tags[key]
	return v, ok
}

func (p *Piece) HasTag(key string) bool {
	_, ok := p.Tags[key]
	return ok
}

// IntTag reads a numeric tag. Values that crossed a JSON boundary arrive as
// float64, so both representations are accepted.
func (p *Piece) IntTag(key string) (int, bool) {
	switch v := p.Tags[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (p *Piece) RemoveTag(key string) {
	delete(p.Tags, key)
	if len(p.Tags) == 0 {
		p.Tags = nil
	}
}

func (p *Piece) Clone() *Piece {
	if p == nil {
		return nil
	}
	clone := *p
	if p.Tags != nil {
		clone.Tags = make(map[string]any, len(p.Tags))
		for k, v := range p.Tags {
			clone.Tags[k] = cloneValue(v)
		}
	}
	return &clone
}
