// Package feed lists a channel's recent videos via its public RSS feed,
// for batch transcript extraction without any API key.
package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"yt-transcripts/pkg/videoid"
)

// channelFeedURL is the public per-channel video feed.
const channelFeedURL = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// Entry is one video listed in a channel feed.
type Entry struct {
	VideoID string
	Title   string
}

// ChannelFeed lists recent videos for a channel.
type ChannelFeed struct {
	feedParser *gofeed.Parser
	feedURL    string
}

// NewChannelFeed creates a channel feed reader.
func NewChannelFeed() *ChannelFeed {
	return &ChannelFeed{
		feedParser: gofeed.NewParser(),
		feedURL:    channelFeedURL,
	}
}

// SetFeedURL overrides the feed URL template. Used by tests.
func (f *ChannelFeed) SetFeedURL(template string) {
	f.feedURL = template
}

// RecentVideos fetches the channel's feed and returns its entries in
// feed order (newest first). Entries whose links do not resolve to a
// valid video ID are skipped.
func (f *ChannelFeed) RecentVideos(ctx context.Context, channelID string) ([]Entry, error) {
	feed, err := f.feedParser.ParseURLWithContext(fmt.Sprintf(f.feedURL, channelID), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse channel feed: %w", err)
	}

	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("channel feed contains no items")
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		id, ok := videoid.Extract(item.Link)
		if !ok {
			continue
		}
		entries = append(entries, Entry{VideoID: id, Title: item.Title})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no valid video links found in feed items")
	}

	return entries, nil
}
