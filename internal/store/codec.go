package store

import (
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding so the same record always
// produces the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

func encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func decode(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Embedded records. Times are kept as Unix nanoseconds.

type userRecord struct {
	ID           string  `cbor:"1,keyasint"`
	Username     string  `cbor:"2,keyasint"`
	PasswordHash string  `cbor:"3,keyasint"`
	Avatar       *string `cbor:"4,keyasint,omitempty"`
	FileURL      *string `cbor:"5,keyasint,omitempty"`
	Theme        string  `cbor:"6,keyasint"`
	CreatedAt    int64   `cbor:"7,keyasint"`
	UpdatedAt    int64   `cbor:"8,keyasint"`
}

type messageRecord struct {
	ID        int64   `cbor:"1,keyasint"`
	SenderID  string  `cbor:"2,keyasint"`
	Content   string  `cbor:"3,keyasint"`
	FileURL   *string `cbor:"4,keyasint,omitempty"`
	Timestamp int64   `cbor:"5,keyasint"`
}

type edgeRecord struct {
	ID       int64  `cbor:"1,keyasint"`
	UserID   string `cbor:"2,keyasint"`
	FriendID string `cbor:"3,keyasint"`
	Status   string `cbor:"4,keyasint"`
}
