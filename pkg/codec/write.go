package codec

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/network"
)

const (
	// indexDelim follows a node's 1-based index.
	indexDelim = ':'
	// neighborDelim separates neighbor indices.
	neighborDelim = ','
	// sectionChar, repeated sectionRepeat times, separates states from neighbors.
	sectionChar   = '-'
	sectionRepeat = 10
)

var sectionLine = strings.Repeat(string(sectionChar), sectionRepeat)

// Marshal encodes a network in the text format.
func Marshal(n *network.Network) []byte {
	var buf bytes.Buffer
	writeTo(&buf, n)
	return buf.Bytes()
}

// Write encodes a network in the text format to w.
func Write(w io.Writer, n *network.Network) error {
	if _, err := w.Write(Marshal(n)); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write network")
	}
	return nil
}

// WriteFile writes a network to path, creating or truncating the file.
func WriteFile(path string, n *network.Network) error {
	if err := os.WriteFile(path, Marshal(n), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

func writeTo(buf *bytes.Buffer, n *network.Network) {
	var num []byte
	writeInt := func(v int) {
		num = strconv.AppendInt(num[:0], int64(v), 10)
		buf.Write(num)
	}
	writeIndex := func(i int) {
		writeInt(i + 1)
		buf.WriteByte(indexDelim)
		buf.WriteByte(' ')
	}

	writeInt(n.Len())
	buf.WriteByte('\n')
	buf.WriteString(n.Rule())
	buf.WriteByte('\n')

	for i := range n.Len() {
		writeIndex(i)
		if n.State(i) {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
		buf.WriteByte('\n')
	}

	buf.WriteString(sectionLine)
	buf.WriteByte('\n')

	for i := range n.Len() {
		writeIndex(i)
		for k, j := range n.Neighbors(i) {
			if k > 0 {
				buf.WriteByte(neighborDelim)
				buf.WriteByte(' ')
			}
			writeInt(j + 1)
		}
		buf.WriteByte('\n')
	}
}
