package cvforge_test

import (
	"context"
	"fmt"

	cvforge "github.com/alnah/go-cvforge"
)

// Render the sample CV to typesetting source only, which needs no external
// compiler.
func ExampleService_Render() {
	svc, err := cvforge.NewService(
		cvforge.WithTheme("classic"),
		cvforge.WithFormats(cvforge.FormatTypst),
	)
	if err != nil {
		fmt.Println("setup:", err)
		return
	}

	res, err := svc.Render(context.Background(), cvforge.Input{
		CV:   cvforge.NewSampleCV(),
		Stem: "jane",
	})
	if err != nil {
		fmt.Println("render:", err)
		return
	}

	fmt.Println(res.Stem, res.Theme, len(res.Typst) > 0)
	// Output: jane classic true
}

// Validate a document without rendering it.
func ExampleCheck() {
	err := cvforge.Check([]byte("email: not-an-email\n"))
	fmt.Println(err != nil)
	// Output: true
}
