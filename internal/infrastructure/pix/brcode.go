package pix

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Merchant identifies the receiver embedded in a copy-and-paste payload.
type Merchant struct {
	Key  string
	Name string
	City string
}

// BuildPayload renders a static BR Code (EMV QR) payload for amount, ending
// with its CRC16 checksum.
func BuildPayload(m Merchant, amount decimal.Decimal, txID string) string {
	account := emv("00", "br.gov.bcb.pix") + emv("01", m.Key)
	reference := emv("05", compactTxID(txID))

	var b strings.Builder
	b.WriteString(emv("00", "01"))
	b.WriteString(emv("26", account))
	b.WriteString(emv("52", "0000"))
	b.WriteString(emv("53", "986"))
	b.WriteString(emv("54", amount.StringFixed(2)))
	b.WriteString(emv("58", "BR"))
	b.WriteString(emv("59", truncate(m.Name, 25)))
	b.WriteString(emv("60", truncate(m.City, 15)))
	b.WriteString(emv("62", reference))
	b.WriteString("6304")

	payload := b.String()
	return payload + fmt.Sprintf("%04X", CRC16(payload))
}

// CRC16 is CRC-16/CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF.
func CRC16(data string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func emv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// reference labels are limited to 25 alphanumeric characters
func compactTxID(txID string) string {
	return truncate(strings.ReplaceAll(txID, "-", ""), 25)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
