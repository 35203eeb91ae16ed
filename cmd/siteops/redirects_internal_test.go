package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestStoreKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flag     string
		hasTable bool
		want     []string
		wantErr  string
	}{
		{flag: "", want: []string{"kvs"}},
		{flag: "", hasTable: true, want: []string{"kvs", "dynamo"}},
		{flag: "kvs", hasTable: true, want: []string{"kvs"}},
		{flag: "dynamo", hasTable: true, want: []string{"dynamo"}},
		{flag: "dynamo", wantErr: "no redirect table"},
		{flag: "redis", wantErr: "unknown redirect store"},
	}
	for _, tt := range tests {
		got, err := storeKinds(tt.flag, tt.hasTable)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("storeKinds(%q, %v) error = %v, want %q", tt.flag, tt.hasTable, err, tt.wantErr)
			}
			continue
		}
		if err != nil || !reflect.DeepEqual(got, tt.want) {
			t.Errorf("storeKinds(%q, %v) = %v, %v, want %v", tt.flag, tt.hasTable, got, err, tt.want)
		}
	}
}

func TestStoreLocation_ReadsFromRedirectorStore(t *testing.T) {
	t.Parallel()

	loc := &storeLocation{kvsARN: "arn:kvs", table: "redirects", kinds: []string{"kvs", "dynamo"}}
	if got := loc.readKind(); got != "dynamo" {
		t.Errorf("readKind() = %q, want dynamo", got)
	}
	if got := loc.name(loc.readKind()); got != "redirects" {
		t.Errorf("name() = %q, want table name", got)
	}
	if got := loc.name("kvs"); got != "arn:kvs" {
		t.Errorf("name(kvs) = %q, want ARN", got)
	}
}
