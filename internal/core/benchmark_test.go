package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// ============================================================================
// Document Reading Benchmarks
// ============================================================================

// BenchmarkReadDocument benchmarks the upload read path for a typical NBB
// export: size limit, BOM skip, format sniffing and UTF-8 decoding.
func BenchmarkReadDocument(b *testing.B) {
	data := append([]byte("\xEF\xBB\xBF"), generateTestCSV(300)...)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := ReadDocument(bytes.NewReader(data), "2023.csv", 0); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkDecodeText_Windows1252 benchmarks the fallback decoder used for
// exports saved by older spreadsheet tools.
func BenchmarkDecodeText_Windows1252(b *testing.B) {
	data, err := charmap.Windows1252.NewEncoder().Bytes(generateTestCSV(300))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeText(data); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Extraction Benchmarks
// ============================================================================

// BenchmarkLoadYears benchmarks a ten-year batch load.
func BenchmarkLoadYears(b *testing.B) {
	text := string(generateTestCSV(300))
	sources := make([]Source, 10)
	for i := range sources {
		sources[i] = TextSource(2014+i, fmt.Sprintf("%d.csv", 2014+i), text)
	}
	builder := extract.NewBuilder()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := LoadYears(ctx, builder, sources, LoadOptions{Parallel: 4}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoadDocumentParallel benchmarks concurrent single-document loads
// sharing one builder, as the upload handlers do.
func BenchmarkLoadDocumentParallel(b *testing.B) {
	src := TextSource(2023, "2023.csv", string(generateTestCSV(300)))
	builder := extract.NewBuilder()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			LoadDocument(builder, src, 0)
		}
	})
}

// BenchmarkAssessQuality benchmarks the quality check run after each
// extraction.
func BenchmarkAssessQuality(b *testing.B) {
	rec := extract.NewYearRecord(2023)
	rec.Equity = extract.Ptr(640_000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		AssessQuality(rec)
	}
}

// generateTestCSV builds an annual-account export with the headline codes
// and rows of filler lines.
func generateTestCSV(rows int) []byte {
	var buf strings.Builder
	buf.WriteString("Rubriek,Omschrijving,Codes,Boekjaar,Vorig boekjaar\n")
	headline := []struct{ label, code, cur, prev string }{
		{"Brutomarge", "9900", "1.250.000,00", "1.100.000,00"},
		{"Bezoldigingen, sociale lasten en pensioenen", "62", "700.000,00", "650.000,00"},
		{"Winst (Verlies) van het boekjaar", "9904", "120.000,00", "95.000,00"},
		{"Eigen vermogen", "10/15", "640.000,00", "600.000,00"},
		{"Schulden op ten hoogste één jaar", "42/48", "380.000,00", "410.000,00"},
		{"Vlottende activa", "29/58", "900.000,00", "850.000,00"},
		{"Totaal der activa", "20/58", "1.900.000,00", "1.800.000,00"},
	}
	for _, h := range headline {
		fmt.Fprintf(&buf, "I,%s,%s,\"%s\",\"%s\"\n", h.label, h.code, h.cur, h.prev)
	}
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&buf, "Toelichting,Omschrijving regel %d,,\"%d,00\",\n", i, i*10)
	}
	return []byte(buf.String())
}
