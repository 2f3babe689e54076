package model

// SpecialMove marks a move as belonging to a specific rule plugin. Payload
// smuggles plugin parameters (a ray direction, a graveyard piece ID) from
// proposal time to commit time.
type SpecialMove struct {
	PluginID string         `json:"pluginId"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Move is either a standard chess move (Special nil) or a plugin-owned
// special action (Special set). Keeping ownership in a typed field instead
// of an open meta bag removes any ambiguity about which plugin a move
// belongs to.
type Move struct {
	From      Position     `json:"from"`
	To        Position     `json:"to"`
	Promotion PieceType    `json:"promotion,omitempty"`
	Special   *SpecialMove `json:"special,omitempty"`
}

func (m Move) IsSpecial() bool {
	return m.Special != nil
}

// OwnedBy reports whether the move is a special move claimed by the given
// plugin.
func (m Move) OwnedBy(pluginID string) bool {
	return m.Special != nil && m.Special.PluginID == pluginID
}

// PayloadInt reads a numeric payload entry, tolerating the float64 form JSON
// decoding produces.
func (m Move) PayloadInt(key string) (int, bool) {
	if m.Special == nil {
		return 0, false
	}
	switch v := m.Special.Payload[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func (m Move) PayloadString(key string) (string, bool) {
	if m.Special == nil {
		return "", false
	}
	v, ok := m.Special.Payload[key].(string)
	return v, ok
}

func (m Move) Clone() Move {
	clone := m
	if m.Special != nil {
		special := SpecialMove{PluginID: m.Special.PluginID}
		if m.Special.Payload != nil {
			special.Payload = make(map[string]any, len(m.Special.Payload))
			for k, v := range m.Special.Payload {
				special.Payload[k] = cloneValue(v)
			}
		}
		clone.Special = &special
	}
	return clone
}

// HistoryEntry records one committed move. Piece snapshots are clones taken
// at commit time, never aliases of live board pieces.
type HistoryEntry struct {
	Move          Move   `json:"move"`
	MovedPiece    *Piece `json:"movedPiece"`
	CapturedPiece *Piece `json:"capturedPiece,omitempty"`
}
