package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// ErrNoImage is reported for cards without a thumbnail.
var ErrNoImage = errors.New("recipe has no image")

// ImageFetcher downloads image bytes.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// ImageLoader fetches card thumbnails with bounded concurrency.
type ImageLoader struct {
	fetcher ImageFetcher
	sem     *semaphore.Weighted
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewImageLoader allows at most concurrency fetches at a time.
func NewImageLoader(fetcher ImageFetcher, concurrency int) *ImageLoader {
	if concurrency <= 0 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ImageLoader{
		fetcher: fetcher,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Lazy returns an image that is only fetched once it is revealed.
// onLoad runs on a loader goroutine.
func (l *ImageLoader) Lazy(url string, onLoad func([]byte, error)) *LazyImage {
	return &LazyImage{url: url, loader: l, onLoad: onLoad}
}

func (l *ImageLoader) load(url string, onLoad func([]byte, error)) {
	defer l.wg.Done()
	if url == "" {
		onLoad(nil, ErrNoImage)
		return
	}
	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		onLoad(nil, err)
		return
	}
	defer l.sem.Release(1)
	data, err := l.fetcher.FetchImage(l.ctx, url)
	if err != nil {
		logrus.WithError(err).WithField("url", url).Debug("thumbnail fetch failed")
	}
	onLoad(data, err)
}

// Wait blocks until every started fetch has finished.
func (l *ImageLoader) Wait() {
	l.wg.Wait()
}

// Close cancels queued and running fetches.
func (l *ImageLoader) Close() {
	l.cancel()
	l.wg.Wait()
}

// LazyImage is a one-shot visibility observer for a single image.
// The first Reveal starts the fetch; later calls do nothing.
type LazyImage struct {
	url      string
	loader   *ImageLoader
	onLoad   func([]byte, error)
	once     sync.Once
	revealed atomic.Bool
}

// URL is the image location.
func (li *LazyImage) URL() string {
	return li.url
}

// Reveal marks the image visible.
func (li *LazyImage) Reveal() {
	li.once.Do(func() {
		li.revealed.Store(true)
		li.loader.wg.Add(1)
		go li.loader.load(li.url, li.onLoad)
	})
}

// Revealed reports whether the image has been seen.
func (li *LazyImage) Revealed() bool {
	return li.revealed.Load()
}
