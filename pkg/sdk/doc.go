// Package postfeed embeds the post feed engine in a Go program: a feed of posts with
// threaded comments and a search that returns posts matching directly or through one of
// their comments.
//
// The engine stores data in Redis (RediSearch), MongoDB or PostgreSQL:
//
//	client, err := postfeed.New(ctx, postfeed.WithRedis("localhost:6379", ""))
//	if err != nil { ... }
//	defer client.Close()
//
//	p, _ := client.CreatePost(ctx, "hello world", "alice")
//	_, _ = client.AddComment(ctx, p.ID, "hello there", "bob")
//
//	res, _ := client.Search(ctx, "hello")
//	for _, post := range res.Posts { ... }
//
//	items, _ := client.Feed(ctx) // newest first, each with its comments
package postfeed
