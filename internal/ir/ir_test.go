package ir_test

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/reoring/convexmodel/internal/ir"
)

func TestName_TypeName(t *testing.T) {
	tests := []struct {
		name ir.Name
		want string
	}{
		{ir.Name{ID: "User"}, "User"},
		{ir.Name{Path: []string{"User"}, ID: "platform"}, "UserPlatform"},
		{ir.Name{Path: []string{"Model", "a"}, ID: "Variant2"}, "ModelAVariant2"},
		{ir.Name{Path: []string{"User"}, ID: "_id"}, "User_id"},
		{ir.Name{Path: []string{"User"}, ID: "élan"}, "UserÉlan"},
		{ir.Name{Path: []string{"ключ"}, ID: "значение"}, "КлючЗначение"},
	}
	for _, tt := range tests {
		got := tt.name.TypeName()
		require.Equal(t, tt.want, got)
		require.True(t, utf8.ValidString(got))
	}
}

func TestCapitalize(t *testing.T) {
	require.Equal(t, "", ir.Capitalize(""))
	require.Equal(t, "_", ir.Capitalize("_"))
	require.Equal(t, "Name", ir.Capitalize("name"))
	require.Equal(t, "Éa", ir.Capitalize("éa"))
	require.Equal(t, "日本", ir.Capitalize("日本"))
}

func TestName_FieldNameAndLabel(t *testing.T) {
	n := ir.Name{Path: []string{"User", "platform"}, ID: "userName"}
	require.Equal(t, "userName", n.FieldName())
	require.Equal(t, "User.platform.userName", n.Label())
	require.Equal(t, []string{"User", "platform", "userName"}, n.FullPath())
	require.Equal(t, []string{"User", "platform"}, n.Path, "FullPath must not alias Path")
}

func TestName_Equal(t *testing.T) {
	a := ir.Name{Path: []string{"A"}, ID: "b"}
	require.True(t, a.Equal(ir.Name{Path: []string{"A"}, ID: "b"}))
	require.False(t, a.Equal(ir.Name{Path: []string{"a"}, ID: "b"}))
	require.False(t, a.Equal(ir.Name{Path: []string{"A", "b"}, ID: "b"}))
}

func TestBaseKind(t *testing.T) {
	require.Equal(t, ir.KindString, ir.BaseKind(ir.ID{Table: "users"}))
	require.Equal(t, ir.KindString, ir.BaseKind(ir.StringLiteral{Value: "x"}))
	require.Equal(t, ir.KindBool, ir.BaseKind(ir.BoolLiteral{Value: true}))
	require.Equal(t, ir.KindInt64, ir.BaseKind(ir.IntLiteral{Value: 9}))
	require.Equal(t, ir.KindNumber, ir.BaseKind(ir.Number{}))
}

func TestCheckNames_Clash(t *testing.T) {
	root := ir.Name{ID: "M"}
	obj := func(n ir.Name) ir.Field {
		return ir.Field{Name: n, Type: &ir.Object{}}
	}
	f := ir.Field{Name: root, Type: &ir.Object{Fields: []ir.Field{
		obj(root.Child("a")),
		obj(root.Child("A")),
	}}}
	err := ir.CheckNames(f)
	var clash *ir.NameClashError
	require.True(t, errors.As(err, &clash))
	require.Equal(t, "MA", clash.TypeName)
	require.Equal(t, "M.A", clash.Second.Name.Label())
}

func TestCheckNames_OptionalSharesName(t *testing.T) {
	root := ir.Name{ID: "M"}
	a := root.Child("a")
	f := ir.Field{Name: root, Type: &ir.Object{Fields: []ir.Field{
		{Name: a, Type: &ir.Optional{Inner: ir.Field{Name: a, Type: &ir.Object{}}}},
	}}}
	require.NoError(t, ir.CheckNames(f))
	require.Equal(t, []string{"M", "MA"}, ir.TypeNames(f))
}

func TestWalk_UnionObjectBranches(t *testing.T) {
	root := ir.Name{ID: "M"}
	a := root.Child("a")
	u := &ir.Union{Branches: []ir.Branch{
		{Name: ir.BranchName(a, 1), Type: &ir.Object{}},
		{Name: ir.BranchName(a, 2), Type: ir.String{}},
	}}
	f := ir.Field{Name: root, Type: &ir.Object{Fields: []ir.Field{{Name: a, Type: u}}}}
	require.Equal(t, []string{"M", "MA", "MAVariant1"}, ir.TypeNames(f))
}
