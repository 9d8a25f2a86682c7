// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// FuncData holds one time function definition
type FuncData struct {
	Name string     `yaml:"name"`
	Type string     `yaml:"type"` // function type, e.g. "cte", "rmp", "lin"
	Prms dbf.Params `yaml:"prms"`
}

// FuncsData is the time function catalogue
type FuncsData []*FuncData

// Get returns the named function; "zero" and "none" are built in
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "zero" || name == "none" {
		return &dbf.Zero, nil
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = dbf.New(f.Type, f.Prms)
			if err != nil {
				return nil, chk.Err("cannot allocate function %q:\n%v", name, err)
			}
			return
		}
	}
	return nil, chk.Err("cannot find function named %q", name)
}
