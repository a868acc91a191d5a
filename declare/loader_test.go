package declare

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermodeler/fieldpath"
	"supermodeler/modeler"
)

const usersYAML = `
version: "1"
models:
  - name: DbGroup
    properties: [id, name]
  - name: DbUser
    properties:
      - given_name
      - surname
      - name: user_id
        readOnly: true
      - user_role
      - name: group
        type: DbGroup
  - name: DomainUser
    methods: [print]
    properties:
      - firstName
      - lastName
      - groupId
      - groupName
      - name: userId
        readOnly: true
      - name: fullName
        get: FullName
      - name: _role
        private: true
        default: user
  - name: ApiUserIds
    validate: true
    properties:
      - name: user
        validation:
          presence: true
          string: {notEmpty: true}
      - group
  - name: ApiUser
    validate: true
    properties:
      - displayName
      - name: ids
        type: ApiUserIds
maps:
  - source: DbUser
    target: DomainUser
    rules:
      firstName: given_name
      lastName: surname
      groupId: group.id
      groupName: group.name
      userId: user_id
      _role: user_role
  - source: DomainUser
    target: ApiUser
    rules:
      displayName: {func: DisplayName}
      ids.user: userId
      ids.group: groupId
`

func userFuncs() *Funcs {
	return NewFuncs().
		Getter("FullName", func(u *modeler.Instance) any {
			return fmt.Sprintf("%v %v", u.Value("firstName"), u.Value("lastName"))
		}).
		Method("print", func(u *modeler.Instance, _ ...any) (any, error) {
			return "My name is: " + u.Value("fullName").(string), nil
		}).
		Compute("DisplayName", func(src fieldpath.Record) (any, error) {
			first, _ := src.Get("firstName")
			last, _ := src.Get("lastName")

			return fmt.Sprintf("%v %v", first, last), nil
		})
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(usersYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Models, 5)
	require.Len(t, f.Maps, 2)

	db := f.Models[1]
	assert.Equal(t, "DbUser", db.Name)
	require.Len(t, db.Properties, 5)
	assert.Equal(t, PropertyDecl{Name: "given_name"}, db.Properties[0])
	assert.True(t, db.Properties[2].ReadOnly)
	assert.Equal(t, "DbGroup", db.Properties[4].Type)

	domain := f.Models[2]
	assert.Equal(t, []string{"print"}, domain.Methods)
	assert.Equal(t, "FullName", domain.Properties[5].Get)
	assert.Equal(t, "user", domain.Properties[6].Default)
	assert.True(t, domain.Properties[6].Private)

	ids := f.Models[3]
	assert.True(t, ids.Validate)
	assert.Equal(t, ConstraintDecls{
		{Kind: "presence"},
		{Kind: "string", Options: map[string]any{"notEmpty": true}},
	}, ids.Properties[0].Validation)

	// Rule order follows the document.
	rules := f.Maps[0].Rules
	require.Len(t, rules, 6)
	assert.Equal(t, RuleDecl{Dest: "firstName", Value: "given_name"}, rules[0])
	assert.Equal(t, RuleDecl{Dest: "groupId", Value: "group.id"}, rules[2])
	assert.Equal(t, RuleDecl{Dest: "_role", Value: "user_role"}, rules[5])

	assert.Equal(t, RuleDecl{Dest: "displayName", Value: FuncRef{Func: "DisplayName"}}, f.Maps[1].Rules[0])
	assert.Equal(t, "ids.user", f.Maps[1].Rules[1].Dest)
}

func TestParse_DefaultsVersion(t *testing.T) {
	f, err := Parse([]byte("models: []"))
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, f.Version)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "models: [\n"},
		{name: "property list", yaml: "models:\n  - name: A\n    properties:\n      - [a, b]\n"},
		{name: "rules not a mapping", yaml: "maps:\n  - source: A\n    target: B\n    rules: [a]\n"},
		{name: "validation not a mapping", yaml: "models:\n  - name: A\n    properties:\n      - name: a\n        validation: [string]\n"},
		{name: "validation false", yaml: "models:\n  - name: A\n    properties:\n      - name: a\n        validation:\n          string: false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParse_KeepsUnsupportedRuleValues(t *testing.T) {
	f, err := Parse([]byte("maps:\n  - source: A\n    target: B\n    rules:\n      x: 42\n      y: false\n"))
	require.NoError(t, err)

	assert.Equal(t, RuleDecls{{Dest: "x", Value: 42}, {Dest: "y", Value: false}}, f.Maps[0].Rules)
}

func TestMarshal_KeepsShape(t *testing.T) {
	f, err := Parse([]byte(usersYAML))
	require.NoError(t, err)

	data, err := Marshal(f)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "- given_name\n")
	assert.Contains(t, out, "readOnly: true")
	assert.Contains(t, out, "func: DisplayName")
	assert.Less(t, strings.Index(out, "firstName: given_name"), strings.Index(out, "_role: user_role"))

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestWriteFileAndLoadFile(t *testing.T) {
	f, err := Parse([]byte(usersYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(usersYAML), 0o600))

	reg := modeler.New()
	require.NoError(t, Load(reg, path, userFuncs()))

	db, err := reg.Create("DbUser", map[string]any{
		"given_name": "Dennis",
		"surname":    "Williams",
		"user_id":    "xyzabcd",
		"user_role":  "admin",
		"group":      map[string]any{"id": "g1", "name": "staff"},
	})
	require.NoError(t, err)

	domain, err := reg.Map(db, "DbUser", "DomainUser")
	require.NoError(t, err)
	assert.Equal(t, "Dennis Williams", domain.Value("fullName"))
	assert.Equal(t, "admin", domain.Value("_role"))
	assert.Equal(t, "g1", domain.Value("groupId"))

	msg, err := domain.Call("print")
	require.NoError(t, err)
	assert.Equal(t, "My name is: Dennis Williams", msg)

	api, err := reg.Map(domain, "DomainUser", "ApiUser")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"displayName": "Dennis Williams",
		"ids":         map[string]any{"user": "xyzabcd", "group": "g1"},
	}, api.ToMap())

	// ApiUserIds validates eagerly: a missing user aborts the mapping.
	domain2, err := reg.Create("DomainUser", map[string]any{"firstName": "A"})
	require.NoError(t, err)

	_, err = reg.Map(domain2, "DomainUser", "ApiUser")
	assert.ErrorIs(t, err, modeler.ErrValidation)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maps:\n  - source: A\n    target: B\n    rules:\n      x: 42\n"), 0o600))

	reg := modeler.New()
	err := Load(reg, path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported_rule")

	_, err = reg.Mapper("A", "B")
	assert.ErrorIs(t, err, modeler.ErrNotFound)
}

func TestLoad_UnresolvedFunctionLeavesRegistryUntouched(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "getter in a later model",
			yaml: "models:\n  - name: A\n    properties: [x]\n  - name: B\n    properties:\n      - name: y\n        get: Y\n",
		},
		{
			name: "compute rule",
			yaml: "models:\n  - name: A\n    properties: [x]\n  - name: B\n    properties: [y]\nmaps:\n  - source: A\n    target: B\n    rules:\n      y: {func: Y}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "models.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			reg := modeler.New()
			err := Load(reg, path, nil)
			require.ErrorIs(t, err, errNoFuncs)

			assert.Empty(t, reg.Models())
			assert.Empty(t, reg.Mappers())
		})
	}
}
