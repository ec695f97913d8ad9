// © 2025 calyx authors. MIT License.

package attributed_test

import (
	"github.com/calyx-engine/calyx/attributed"
	"github.com/calyx-engine/calyx/rtti"
)

// Creature is the root reflectable fixture: two scalar backed attributes.
type Creature struct {
	attributed.Attributed
	Name    string `attr:"name"`
	Enabled bool   `attr:"enabled"`
}

func NewCreature() *Creature {
	c := &Creature{}
	c.Init(c)
	return c
}

func (c *Creature) TypeID() rtti.TypeID { return creatureTypeID }
func (c *Creature) String() string      { return "Creature(" + c.Name + ")" }

// Monster derives from Creature. It redeclares "name" onto its own Alias
// field, adds a scalar, an array-backed attribute, and two unbacked ones.
type Monster struct {
	Creature
	Alias  string `attr:"name"`
	Health int    `attr:"health"`
	Threat [3]int `attr:"threat"`
}

func NewMonster() *Monster {
	m := &Monster{}
	m.Init(m)
	return m
}

func (m *Monster) TypeID() rtti.TypeID { return monsterTypeID }
func (m *Monster) String() string      { return "Monster(" + m.Alias + ")" }
