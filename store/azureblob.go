package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// Option configures an AzureBlob backend, following the same functional-
// options shape the teacher's storage layer uses for its object store.
type Option func(*AzureBlob)

// WithPrefix namespaces every blob this backend writes under prefix,
// allowing several gateway deployments to share one container. Pass the
// output of NewDeploymentPrefix for a fresh, collision-free prefix.
func WithPrefix(prefix string) Option {
	return func(a *AzureBlob) { a.prefix = prefix }
}

// AzureBlob is a Backend backed by an Azure Blob container, one blob per
// account, named by the address's hex encoding and the extension ".acct"
// for every account kind (mirroring the teacher's path-per-object storage
// convention).
type AzureBlob struct {
	client *azblob.Client
	container string
	prefix string
}

// NewAzureBlob wraps an already-constructed azblob.Client.
func NewAzureBlob(client *azblob.Client, container string, opts ...Option) *AzureBlob {
	a := &AzureBlob{client: client, container: container}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *AzureBlob) blobName(addr Address) string {
	if a.prefix == "" {
		return fmt.Sprintf("%x.acct", addr[:])
	}
	return fmt.Sprintf("%s/%x.acct", a.prefix, addr[:])
}

func encodeRecord(rec Record) []byte {
	out := make([]byte, 1+len(rec.Bytes)+1)
	out[0] = byte(rec.Kind)
	out[1] = rec.Bump
	copy(out[2:], rec.Bytes)
	return out
}

func decodeRecord(b []byte) (Record, error) {
	if len(b) < 2 {
		return Record{}, fmt.Errorf("%w: truncated account blob", ErrNotFound)
	}
	return Record{Kind: Kind(b[0]), Bump: b[1], Bytes: append([]byte(nil), b[2:]...)}, nil
}

// Create uploads rec as a new blob, failing with ErrAlreadyExists if the
// blob is already present (via an If-None-Match: * conditional upload —
// the same optimistic-concurrency pattern the teacher's object store uses
// to make massif segment writes idempotent).
func (a *AzureBlob) Create(ctx context.Context, addr Address, rec Record) error {
	_, err := a.client.UploadBuffer(ctx, a.container, a.blobName(addr), encodeRecord(rec), &azblob.UploadBufferOptions{
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{
				IfNoneMatch: to.Ptr(azcore.ETagAny),
			},
		},
	})
	if err != nil {
		if bloberror.HasCode(err, bloberror.ConditionNotMet) || bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("store: azure create: %w", err)
	}
	return nil
}

func (a *AzureBlob) Get(ctx context.Context, addr Address) (Record, error) {
	resp, err := a.client.DownloadStream(ctx, a.container, a.blobName(addr), nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("store: azure get: %w", err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return Record{}, fmt.Errorf("store: azure get: reading body: %w", err)
	}
	return decodeRecord(buf.Bytes())
}

func (a *AzureBlob) Put(ctx context.Context, addr Address, rec Record) error {
	_, err := a.client.UploadBuffer(ctx, a.container, a.blobName(addr), encodeRecord(rec), nil)
	if err != nil {
		return fmt.Errorf("store: azure put: %w", err)
	}
	return nil
}

func (a *AzureBlob) Delete(ctx context.Context, addr Address) error {
	_, err := a.client.DeleteBlob(ctx, a.container, a.blobName(addr), nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("store: azure delete: %w", err)
	}
	return nil
}

var _ Backend = (*AzureBlob)(nil)
