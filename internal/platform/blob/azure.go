package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

type AzureStore struct {
	client    *azblob.Client
	container string
}

// NewStore connects to Azure Blob Storage and makes sure the container exists.
// An empty connection string yields a Store whose calls fail with KindNotConfigured.
func NewStore(ctx context.Context, connectionString, container string) (Store, error) {
	if connectionString == "" {
		log.Println("WARN: AZURE_STORAGE_CONNECTION_STRING is not set, blob storage is disabled")
		return unconfigured{}, nil
	}
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, &Error{Kind: KindNotConfigured, Op: "connect", Err: err}
	}
	s := &AzureStore{client: client, container: container}
	if err := s.ensureContainer(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AzureStore) ensureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err == nil {
		log.Printf("INFO: Created blob container %s", s.container)
		return nil
	}
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return &Error{Kind: KindNetwork, Op: "create container", Name: s.container, Err: err}
}

func (s *AzureStore) List(ctx context.Context) ([]string, error) {
	var names []string
	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Op: "list", Err: err}
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name != nil {
				names = append(names, *item.Name)
			}
		}
	}
	return names, nil
}

func (s *AzureStore) Get(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, &Error{Kind: KindNotFound, Op: "get", Name: name, Err: err}
		}
		return nil, &Error{Kind: KindNetwork, Op: "get", Name: name, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "get", Name: name, Err: fmt.Errorf("read body: %w", err)}
	}
	return data, nil
}

func (s *AzureStore) Put(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return &Error{Kind: KindMalformed, Op: "put", Err: errors.New("blob name is required")}
	}
	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return &Error{Kind: KindNetwork, Op: "put", Name: name, Err: err}
	}
	return nil
}
