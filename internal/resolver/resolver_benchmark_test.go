package resolver

import (
	"testing"

	"github.com/seitarof/gen-schema/internal/parser"
)

func BenchmarkResolve_ProtocolStructs(b *testing.B) {
	cat, err := parser.New().Parse(protocolFixture)
	if err != nil {
		b.Fatalf("Parse() error = %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := New(NewContext(cat))
		for _, spec := range cat.Types {
			if Classify(spec) == KindStruct {
				if rs := r.Struct(spec); rs == nil {
					b.Fatalf("Struct(%s) returned nil", spec.Name)
				}
			}
		}
	}
}
