package cropping

import "context"

// ReceiptStorage keeps uploaded expense receipts in object storage
type ReceiptStorage interface {
	// Put stores data under key and returns the full object key
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// DownloadURL returns a time-limited link to an object
	DownloadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
