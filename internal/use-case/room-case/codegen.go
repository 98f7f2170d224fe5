package room_service

import (
	"regexp"

	"github.com/jaevor/go-nanoid"
)

// Room codes are 6 uppercase alphanumerics, the address users type to
// join. 36^6 codes keeps collisions rare; CreateRoom still checks.
const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CodeLength   = 6
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

var generateCode func() string

func init() {
	gen, err := nanoid.CustomASCII(codeAlphabet, CodeLength)
	if err != nil {
		panic(err)
	}
	generateCode = gen
}

func GenerateRoomCode() string {
	return generateCode()
}

func IsValidRoomCode(code string) bool {
	return codePattern.MatchString(code)
}
