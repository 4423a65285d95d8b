// Package api holds the BookFeed gRPC bindings generated from bookfeed.proto.
package api

//go:generate protoc --go_out=. --go_opt=paths=source_relative --go-grpc_out=. --go-grpc_opt=paths=source_relative bookfeed.proto
