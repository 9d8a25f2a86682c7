// Copyright 2024 The Cardillo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/lisaeb/cardillo/mdl"
)

// MatData holds one material definition
type MatData struct {
	Name  string     `yaml:"name"`
	Model string     `yaml:"model"` // constitutive model name, e.g. "quadratic"
	Prms  dbf.Params `yaml:"prms"`
}

// MatsData is the material catalogue
type MatsData []*MatData

// Get allocates and initializes the named material
func (o MatsData) Get(name string) (m mdl.RodMaterial, err error) {
	for _, d := range o {
		if d.Name == name {
			m, err = mdl.NewRod(d.Model)
			if err != nil {
				return nil, chk.Err("cannot allocate material %q:\n%v", name, err)
			}
			if err = m.Init(d.Prms); err != nil {
				return nil, chk.Err("cannot initialize material %q:\n%v", name, err)
			}
			return
		}
	}
	return nil, chk.Err("cannot find material named %q", name)
}
