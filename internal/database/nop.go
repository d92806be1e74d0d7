package database

import (
	"context"
	"time"
)

// nopStore is used when the request log is disabled.
type nopStore struct{}

// NewNopStore returns a Store that accepts every call and keeps nothing.
func NewNopStore() Store { return nopStore{} }

func (nopStore) Ping(context.Context) error { return nil }

func (nopStore) SaveSummaryRequest(context.Context, *SummaryRequest) error { return nil }

func (nopStore) GetRecentSummaryRequests(context.Context, int) ([]*SummaryRequest, error) {
	return nil, nil
}

func (nopStore) CountSummaryRequestsSince(context.Context, time.Time, string) (int, error) {
	return 0, nil
}

func (nopStore) DeleteSummaryRequestsBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (nopStore) RunSQLMaintenance(context.Context) error { return nil }
