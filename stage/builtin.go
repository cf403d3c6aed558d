/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package stage

import (
	"context"
	"embed"
	iofs "io/fs"

	"bennypowers.dev/learnjq/fs"
)

//go:embed builtin
var builtinFS embed.FS

// BuiltinFile is the definition file of the bundled stages.
const BuiltinFile = "stages.yaml"

// Builtin returns the bundled stages.
func Builtin() ([]*Stage, error) {
	sub, err := iofs.Sub(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	l := &Loader{FS: fs.NewReadOnlyFS(sub)}
	return l.LoadFile(context.Background(), BuiltinFile)
}

// BuiltinCatalog returns a catalog of the bundled stages.
func BuiltinCatalog() (*Catalog, error) {
	stages, err := Builtin()
	if err != nil {
		return nil, err
	}
	return NewCatalog(stages...)
}
