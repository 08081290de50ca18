package codec_test

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/matzehuels/boolnet/pkg/codec"
	"github.com/matzehuels/boolnet/pkg/errors"
	"github.com/matzehuels/boolnet/pkg/rule"
)

func ExampleRead() {
	text := `2
and
1: 1
2: 1
----------
1: 2
2: 1, 2
`
	net, err := codec.Read(strings.NewReader(text), rule.Builtin())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(net.Len(), net.Rule(), net.States(), net.Neighbors(1))
	// Output:
	// 2 and [true true] [0 1]
}

func ExampleRead_indexMismatch() {
	text := "3\nxor\n1: 1\n3: 0\n"
	_, err := codec.Read(strings.NewReader(text), rule.Builtin())

	var fe *errors.FormatError
	if stderrors.As(err, &fe) {
		fmt.Println(fe.Kind, fe.Expected, fe.Actual)
	}
	// Output:
	// index mismatch 2 3
}
