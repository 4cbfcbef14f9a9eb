// Package pipeline builds and runs the RTMP encoder graph.
//
// The graph renders an overlay page and a clock over it, mixes an HTTP
// audio stream, encodes both to H.264 and AAC, muxes them into FLV and
// publishes to an RTMP endpoint:
//
//	wpesrc ! clockoverlay ! <video encoder chain> ! flvmux.video
//	souphttpsrc ! mpegaudioparse ! mpg123audiodec ! audiomixer ! <audio encoder chain> ! flvmux.audio
//	flvmux ! rtmp2sink
//
// Chain builders live on Factory and only ever add and link nodes; the
// Controller owns the graph and its lifecycle:
//
//	c := pipeline.NewController(eng, cfg, pipeline.WithLogger(logger))
//	term, err := c.Run()
package pipeline
