// Hand-written registry table for the fixtures in fixtures_test.go, laid out
// like the tables cmd/attrgen emits.  attrgen does not scan _test.go files,
// so this table is kept by hand.

package attributed_test

import (
	"github.com/calyx-engine/calyx/attributed"
	"github.com/calyx-engine/calyx/datum"
	"github.com/calyx-engine/calyx/internal/memutil"
	"github.com/calyx-engine/calyx/rtti"
)

var (
	creatureTypeID = rtti.Register("Creature")
	monsterTypeID  = rtti.Register("Monster")
)

type creatureFields interface {
	attrCreatureName() []string
	attrCreatureEnabled() []bool
}

func (c *Creature) attrCreatureName() []string  { return memutil.FieldSlice(&c.Name) }
func (c *Creature) attrCreatureEnabled() []bool { return memutil.FieldSlice(&c.Enabled) }

type monsterFields interface {
	attrMonsterAlias() []string
	attrMonsterHealth() []int
	attrMonsterThreat() []int
}

func (m *Monster) attrMonsterAlias() []string { return memutil.FieldSlice(&m.Alias) }
func (m *Monster) attrMonsterHealth() []int   { return memutil.FieldSlice(&m.Health) }
func (m *Monster) attrMonsterThreat() []int   { return m.Threat[:] }

func init() {
	attributed.RegisterType(creatureTypeID, attributed.Entry{
		Base: creatureTypeID,
		Attributes: []attributed.AttributeDescriptor{
			{
				Name: "name", Type: datum.String, Count: 1, CtorKey: "string",
				Bind: func(owner any) *datum.Datum {
					return datum.ExternalOf(owner.(creatureFields).attrCreatureName())
				},
			},
			{
				Name: "enabled", Type: datum.Bool, Count: 1, CtorKey: "bool",
				Bind: func(owner any) *datum.Datum {
					return datum.ExternalOf(owner.(creatureFields).attrCreatureEnabled())
				},
			},
		},
	})
	attributed.RegisterType(monsterTypeID, attributed.Entry{
		Base: creatureTypeID,
		Attributes: []attributed.AttributeDescriptor{
			{
				Name: "name", Type: datum.String, Count: 1, CtorKey: "string",
				Bind: func(owner any) *datum.Datum {
					return datum.ExternalOf(owner.(monsterFields).attrMonsterAlias())
				},
			},
			{
				Name: "health", Type: datum.Int, Count: 1, CtorKey: "int",
				Bind: func(owner any) *datum.Datum {
					return datum.ExternalOf(owner.(monsterFields).attrMonsterHealth())
				},
			},
			{
				Name: "threat", Type: datum.Int, Count: 3, CtorKey: "int",
				Bind: func(owner any) *datum.Datum {
					return datum.ExternalOf(owner.(monsterFields).attrMonsterThreat())
				},
			},
			{Name: "tag", Type: datum.String, Count: 0, CtorKey: "string"},
			{Name: "friend", Type: datum.RTTI, Count: 0, CtorKey: "Monster"},
		},
	})
	attributed.RegisterFactory("Creature", func() rtti.RTTI { return NewCreature() })
	attributed.RegisterFactory("Monster", func() rtti.RTTI { return NewMonster() })
}
