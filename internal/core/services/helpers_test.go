package services

import (
	"github.com/custodia-labs/curator/internal/core/domain"
)

// makeRecords returns n records with ids 1..n.
func makeRecords(n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = domain.NewRecord(domain.F("id", domain.Int(int64(i+1))))
	}
	return records
}

// ids extracts the id field of each record.
func ids(records []domain.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		v, _ := r.Get("id")
		out[i], _ = v.AsInt()
	}
	return out
}

func seq(from, to int64) []int64 {
	out := make([]int64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
