package storage

import (
	"context"

	"spectra-server/internal/metrics"
)

type instrumented struct {
	next BlobStore
}

// Instrument 为 store 的每次操作记录 spectra_blob_operations_total。
func Instrument(store BlobStore) BlobStore {
	return &instrumented{next: store}
}

func (i *instrumented) Put(ctx context.Context, data []byte, ext, contentType string) (string, error) {
	locator, err := i.next.Put(ctx, data, ext, contentType)
	metrics.BlobOperationsTotal.WithLabelValues("put", metrics.Result(err)).Inc()
	return locator, err
}

func (i *instrumented) Delete(ctx context.Context, locator string) error {
	err := i.next.Delete(ctx, locator)
	metrics.BlobOperationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	return err
}

// Unwrap 返回被包装的底层存储。
func (i *instrumented) Unwrap() BlobStore {
	return i.next
}
