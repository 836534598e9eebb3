package dancingstar

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// crcFile returns the CRC-32 of a label and a file's contents in the form
// used to key the listing cache. The label takes part for the same reason
// as in crcPixels.
func crcFile(label, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := crc32.NewIEEE()
	if _, err = h.Write([]byte(label)); err != nil {
		return "", err
	}
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%.*X", crc32.Size<<1, h.Sum(nil)), nil
}

// crcPixels keys an in-memory RGBA buffer together with the label its
// tables are generated under, since the label is baked into the cached
// text.
func crcPixels(label string, pix []byte) string {
	crc := crc32.ChecksumIEEE([]byte(label))
	return fmt.Sprintf("%08X", crc32.Update(crc, crc32.IEEETable, pix))
}
