package domain

import "encoding/base64"

// EncodePositionID returns a compact, URL-safe wire encoding of b: for each
// color in turn (White, then Red), one byte for the bar count, 24 bytes for
// the point counts (0 where the point isn't held by that color), and one
// byte for the borne-off count, all base64-encoded. Spectators and the
// admin surface use this to snapshot/replay a board without round-tripping
// the full JSON state.
func EncodePositionID(b *Board) string {
	buf := make([]byte, 0, 2*(1+24+1))
	for _, c := range []Color{White, Red} {
		buf = append(buf, byte(b.Bar(c)))
		for i := 1; i <= 24; i++ {
			col, ok := b.Point(i).Occupant()
			if ok && col == c {
				buf = append(buf, byte(b.Point(i).Count))
			} else {
				buf = append(buf, 0)
			}
		}
		buf = append(buf, byte(b.Off(c)))
	}
	return base64.URLEncoding.EncodeToString(buf)
}

// DecodePositionID reverses EncodePositionID, reconstructing a Board.
func DecodePositionID(s string) (*Board, error) {
	buf, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	const want = 2 * (1 + 24 + 1)
	if len(buf) != want {
		return nil, errBadPositionID
	}
	b := &Board{}
	idx := 0
	for _, c := range []Color{White, Red} {
		b.bar[c] = int(buf[idx])
		idx++
		for i := 1; i <= 24; i++ {
			if n := int(buf[idx]); n > 0 {
				b.points[i] = Point{Color: c, Count: n}
			}
			idx++
		}
		b.off[c] = int(buf[idx])
		idx++
	}
	return b, nil
}

var errBadPositionID = positionIDError("domain: malformed position id")

type positionIDError string

func (e positionIDError) Error() string { return string(e) }
