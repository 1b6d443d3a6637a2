package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	putBody []byte
	objects map[string][]byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.put = in
	f.putBody = body
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "abc/file.pdf", want: "abc/file.pdf"},
		{name: "simple prefix", prefix: "uploads", key: "abc/file.pdf", want: "uploads/abc/file.pdf"},
		{name: "prefix trailing slash", prefix: "uploads/", key: "abc/file.pdf", want: "uploads/abc/file.pdf"},
		{name: "prefix and key slashes", prefix: "/uploads/", key: "/abc/file.pdf", want: "uploads/abc/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "abc/file.pdf", want: "root/sub/abc/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestSaveUploadsWithEncryption(t *testing.T) {
	client := &fakeS3{}
	store, err := NewWithClient(client, "resumes", "/uploads/", "")
	if err != nil {
		t.Fatalf("NewWithClient: %v", err)
	}
	data := []byte("%PDF-1.4 fake")

	obj, err := store.Save(context.Background(), "cv.pdf", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := aws.ToString(client.put.Key); got != "uploads/"+obj.Key || !strings.HasSuffix(got, "/cv.pdf") {
		t.Fatalf("unexpected object key %q (storage key %q)", got, obj.Key)
	}
	if aws.ToString(client.put.Bucket) != "resumes" {
		t.Fatalf("unexpected bucket %q", aws.ToString(client.put.Bucket))
	}
	if client.put.ServerSideEncryption != s3types.ServerSideEncryptionAes256 {
		t.Fatalf("expected AES256 encryption, got %q", client.put.ServerSideEncryption)
	}
	if obj.ContentType != "application/pdf" || !bytes.Equal(client.putBody, data) {
		t.Fatalf("unexpected upload: %+v body=%q", obj, client.putBody)
	}

	rc, err := store.Open(context.Background(), obj.Key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, data) {
		t.Fatalf("unexpected download %q", got)
	}
}

func TestSaveUsesKMSKey(t *testing.T) {
	client := &fakeS3{}
	store, err := NewWithClient(client, "resumes", "", "kms-key-1")
	if err != nil {
		t.Fatalf("NewWithClient: %v", err)
	}
	if _, err := store.Save(context.Background(), "cv.txt", []byte("hello")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if client.put.ServerSideEncryption != s3types.ServerSideEncryptionAwsKms || aws.ToString(client.put.SSEKMSKeyId) != "kms-key-1" {
		t.Fatalf("expected KMS encryption, got %+v", client.put)
	}
}

func TestNewWithClientRequiresBucket(t *testing.T) {
	if _, err := NewWithClient(&fakeS3{}, " ", "", ""); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}

func TestOpenMissingKeyIsNotExist(t *testing.T) {
	store, err := NewWithClient(&fakeS3{}, "resumes", "", "")
	if err != nil {
		t.Fatalf("NewWithClient: %v", err)
	}
	if _, err := store.Open(context.Background(), "abc/cv.pdf"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}
