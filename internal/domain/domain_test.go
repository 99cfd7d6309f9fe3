package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestReferenceSetFirstWins(t *testing.T) {
	t.Parallel()

	set := NewReferenceSet()
	first := AssetReference{SourceURL: "http://a/x.png", Category: CategoryImage, TargetName: "first.png"}
	if !set.Add(first) {
		t.Fatalf("first add must succeed")
	}
	if set.Add(AssetReference{SourceURL: "http://a/x.png", Category: CategoryImage, TargetName: "second.png"}) {
		t.Fatalf("duplicate key must be rejected")
	}
	model := AssetReference{SourceURL: "http://a/x.png", Category: CategoryModel, TargetName: "model.png"}
	if !set.Add(model) {
		t.Fatalf("same URL in another category is a distinct reference")
	}

	if !reflect.DeepEqual(set.Slice(), []AssetReference{first, model}) {
		t.Fatalf("unexpected slice: %+v", set.Slice())
	}
	if !set.Contains(first.Key()) || set.Contains(AssetKey{URL: "http://b"}) {
		t.Fatalf("unexpected Contains results")
	}
}

func TestReferenceSetMerge(t *testing.T) {
	t.Parallel()

	a := NewReferenceSet()
	a.Add(AssetReference{SourceURL: "u1", Category: CategoryModel})
	b := NewReferenceSet()
	b.Add(AssetReference{SourceURL: "u1", Category: CategoryModel})
	b.Add(AssetReference{SourceURL: "u2", Category: CategoryImage})

	a.Merge(b)
	a.Merge(nil)
	if a.Len() != 2 {
		t.Fatalf("expected 2 references, got %d", a.Len())
	}

	var empty *ReferenceSet
	if empty.Len() != 0 || empty.Slice() != nil || empty.Contains(AssetKey{}) {
		t.Fatalf("nil set must behave as empty")
	}
}

func TestCategorySubdir(t *testing.T) {
	t.Parallel()

	if CategoryImage.Subdir() != "Images" || CategoryModel.Subdir() != "Models" {
		t.Fatalf("unexpected subdirectories")
	}
	if AssetCategory("audio").Valid() || AssetCategory("audio").Subdir() != "" {
		t.Fatalf("unknown category must be invalid")
	}
}

func TestFetchErrorKinds(t *testing.T) {
	t.Parallel()

	status := fmt.Errorf("wrapped: %w", &FetchError{Kind: FetchHTTPStatus, URL: "http://a", StatusCode: 404, Detail: "Not Found"})
	if !errors.Is(status, ErrHTTPStatus) || errors.Is(status, ErrNetwork) {
		t.Fatalf("status error must match only ErrHTTPStatus")
	}
	if got := status.Error(); got != "wrapped: fetch http://a: status 404 (Not Found)" {
		t.Fatalf("unexpected message: %s", got)
	}

	timeout := &FetchError{Kind: FetchTimeout, URL: "http://a", Err: context.DeadlineExceeded}
	if !errors.Is(timeout, ErrTimeout) || !errors.Is(timeout, context.DeadlineExceeded) {
		t.Fatalf("timeout must match ErrTimeout and its cause")
	}

	var fe *FetchError
	if !errors.As(status, &fe) || fe.StatusCode != 404 {
		t.Fatalf("errors.As must recover the fetch error")
	}
}

func TestMalformedIsInputError(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrMalformedInput, ErrInput) {
		t.Fatalf("malformed input must be an input error")
	}
}
