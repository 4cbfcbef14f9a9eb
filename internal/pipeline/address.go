package pipeline

import "fmt"

// AudioSourceAddress returns the playback server URL of a channel's audio stream.
func AudioSourceAddress(baseURL string, userID, channelID uint32) string {
	return fmt.Sprintf("%s/user/%d/channel/%d/stream", baseURL, userID, channelID)
}

// PublishAddress joins an RTMP application URL and a stream key.
func PublishAddress(rtmpURL, streamKey string) string {
	return fmt.Sprintf("%s/%s", rtmpURL, streamKey)
}
