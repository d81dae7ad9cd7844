package display

// NumSymbols is the number of displayable symbols: 0-9 then the letters
// A b C d E F g h I J L n o P q r t u U.
const NumSymbols = 29

// Symbol indices for the letters.
const (
	SymA = 10 + iota
	SymB
	SymC
	SymD
	SymE
	SymF
	SymG
	SymH
	SymI
	SymJ
	SymL
	SymN
	SymO
	SymP
	SymQ
	SymR
	SymT
	SymU
	SymUpperU
)

// Canonical segment patterns, bit order abcdefgp from MSB to LSB.
// A lit segment is a 1 for common cathode and a 0 for common anode.
var codesCC = [NumSymbols]uint8{
	0b11111100, // 0
	0b01100000, // 1
	0b11011010, // 2
	0b11110010, // 3
	0b01100110, // 4
	0b10110110, // 5, S
	0b10111110, // 6
	0b11100000, // 7
	0b11111110, // 8
	0b11110110, // 9
	0b11101110, // A
	0b00111110, // b
	0b10011100, // C
	0b01111010, // d
	0b10011110, // E
	0b10001110, // F
	0b11011110, // g
	0b00101110, // h
	0b01100000, // I
	0b11110000, // J
	0b00011100, // L
	0b00101010, // n
	0b00111010, // o
	0b11001110, // P
	0b11100110, // q
	0b00001010, // r
	0b00011110, // t
	0b00111000, // u
	0b01111100, // U
}

var codesCA = invert(codesCC)

// symbolChars spells each symbol as the closest ASCII character.
const symbolChars = "0123456789AbCdEFghIJLnoPqrtuU"

func invert(in [NumSymbols]uint8) [NumSymbols]uint8 {
	var out [NumSymbols]uint8
	for i, c := range in {
		out[i] = ^c
	}
	return out
}

// Codes returns the canonical table for a polarity.
func Codes(p Polarity) [NumSymbols]uint8 {
	if p == CommonAnode {
		return codesCA
	}
	return codesCC
}
