package benchmarks

import (
	"bytes"
	"context"
	"testing"

	"github.com/reoring/convexmodel/examples/user"
	"github.com/reoring/convexmodel/source"
)

// --- Fixtures ---

func userJSON() []byte {
	return []byte(`{"_id":"u1","name":"Alice","kind":"member","age":31,"score":4.5,"active":true,` +
		`"platform":"android","address":{"street":"main","zip":"100"},"event":{"t":"two","value":"hi"}}`)
}

// --- Source ---

func Benchmark_Source_JSON(b *testing.B) {
	data := userJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := source.JSONReader(bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Generated ---

func Benchmark_Generated_User_Decode(b *testing.B) {
	v, err := source.JSON(userJSON())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := user.UserFromValue(v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Generated_User_Encode(b *testing.B) {
	v, err := source.JSON(userJSON())
	if err != nil {
		b.Fatal(err)
	}
	u, err := user.UserFromValue(v)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := u.MarshalJSON(); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Runtime ---

func Benchmark_Runtime_User_Decode(b *testing.B) {
	ctx := context.Background()
	v, err := source.JSON(userJSON())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := user.Model.Decode(ctx, v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Runtime_User_DecodeJSON(b *testing.B) {
	ctx := context.Background()
	data := userJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := user.Model.DecodeJSON(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Runtime_User_Encode(b *testing.B) {
	rec, err := user.Model.DecodeJSON(context.Background(), userJSON())
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rec.MarshalJSON(); err != nil {
			b.Fatal(err)
		}
	}
}
