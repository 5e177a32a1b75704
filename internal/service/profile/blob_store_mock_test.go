package profile

import (
	"context"
	"sync"
)

var _ blobStore = &blobStoreMock{}

type blobStoreMock struct {
	ReadBlobFunc   func(ctx context.Context, filename string) ([]byte, error)
	WriteBlobFunc  func(ctx context.Context, filename string, data []byte) error
	DeleteBlobFunc func(ctx context.Context, filename string) error

	calls struct {
		ReadBlob []struct {
			Ctx      context.Context
			Filename string
		}
		WriteBlob []struct {
			Ctx      context.Context
			Filename string
			Data     []byte
		}
		DeleteBlob []struct {
			Ctx      context.Context
			Filename string
		}
	}
	lockReadBlob   sync.RWMutex
	lockWriteBlob  sync.RWMutex
	lockDeleteBlob sync.RWMutex
}

func (mock *blobStoreMock) ReadBlob(ctx context.Context, filename string) ([]byte, error) {
	if mock.ReadBlobFunc == nil {
		panic("blobStoreMock.ReadBlobFunc: method is nil but blobStore.ReadBlob was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Filename string
	}{Ctx: ctx, Filename: filename}
	mock.lockReadBlob.Lock()
	mock.calls.ReadBlob = append(mock.calls.ReadBlob, callInfo)
	mock.lockReadBlob.Unlock()
	return mock.ReadBlobFunc(ctx, filename)
}

func (mock *blobStoreMock) ReadBlobCalls() []struct {
	Ctx      context.Context
	Filename string
} {
	mock.lockReadBlob.RLock()
	calls := mock.calls.ReadBlob
	mock.lockReadBlob.RUnlock()
	return calls
}

func (mock *blobStoreMock) WriteBlob(ctx context.Context, filename string, data []byte) error {
	if mock.WriteBlobFunc == nil {
		panic("blobStoreMock.WriteBlobFunc: method is nil but blobStore.WriteBlob was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Filename string
		Data     []byte
	}{Ctx: ctx, Filename: filename, Data: data}
	mock.lockWriteBlob.Lock()
	mock.calls.WriteBlob = append(mock.calls.WriteBlob, callInfo)
	mock.lockWriteBlob.Unlock()
	return mock.WriteBlobFunc(ctx, filename, data)
}

func (mock *blobStoreMock) WriteBlobCalls() []struct {
	Ctx      context.Context
	Filename string
	Data     []byte
} {
	mock.lockWriteBlob.RLock()
	calls := mock.calls.WriteBlob
	mock.lockWriteBlob.RUnlock()
	return calls
}

func (mock *blobStoreMock) DeleteBlob(ctx context.Context, filename string) error {
	if mock.DeleteBlobFunc == nil {
		panic("blobStoreMock.DeleteBlobFunc: method is nil but blobStore.DeleteBlob was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Filename string
	}{Ctx: ctx, Filename: filename}
	mock.lockDeleteBlob.Lock()
	mock.calls.DeleteBlob = append(mock.calls.DeleteBlob, callInfo)
	mock.lockDeleteBlob.Unlock()
	return mock.DeleteBlobFunc(ctx, filename)
}

func (mock *blobStoreMock) DeleteBlobCalls() []struct {
	Ctx      context.Context
	Filename string
} {
	mock.lockDeleteBlob.RLock()
	calls := mock.calls.DeleteBlob
	mock.lockDeleteBlob.RUnlock()
	return calls
}
