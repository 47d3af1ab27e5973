// Package stream is the websocket transport behind feed.Session.
//
// A Dialer opens one gorilla/websocket connection per attempt and hands it
// back as a feed.Conn. The connection pings the peer on an interval and
// treats a missing pong as a read error, so a stalled backend surfaces as a
// disconnect instead of a silent hang. Normal and going-away close frames
// are reported as io.EOF.
package stream
