// Command examples drives the client end to end against a small in-memory
// JSON:API server, one scenario at a time: reads, paginated reads, create,
// update, relationship mutation, delete, and bearer-signed transport.
package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hyperclient/jsonapi/client"
	"github.com/hyperclient/jsonapi/transport"
)

func main() {
	srv := httptest.NewServer(newDemoServer().Handler())
	defer srv.Close()

	registry := newRegistry()
	httpTransport := transport.NewHTTPTransport(&idempotencyRoundTripper{})
	c := client.New(srv.URL, registry, httpTransport, nil, nil)
	defer c.Close()

	ctx := context.Background()

	fmt.Println("=== find a collection ===")
	demoFind(ctx, c)

	fmt.Println("\n=== paginate through a collection ===")
	demoPagination(ctx, c)

	fmt.Println("\n=== create, update, and delete ===")
	demoSaveAndDelete(ctx, c)

	fmt.Println("\n=== relationship mutation ===")
	demoRelationships(ctx, c)

	fmt.Println("\n=== ensure an unloaded stub ===")
	demoEnsure(ctx, c)

	fmt.Println("\n=== bearer-signed transport ===")
	demoBearerTransport()
}

func demoFind(ctx context.Context, c *client.Client) {
	coll, err := c.FindByType(ctx, "articles").Wait(ctx)
	if err != nil {
		fmt.Println("find failed:", err)
		return
	}
	for _, r := range coll.Resources {
		article := r.(*Article)
		fmt.Printf("  %s: %q\n", article.ID, article.Title())
	}
}

func demoPagination(ctx context.Context, c *client.Client) {
	coll, err := c.FindByType(ctx, "articles").Wait(ctx)
	if err != nil {
		fmt.Println("find failed:", err)
		return
	}
	fmt.Printf("  page 1: %d resources, next=%q\n", coll.Count(), coll.NextURL)

	for coll.NextURL != "" {
		coll, err = c.LoadNextPageOfCollection(ctx, coll).Wait(ctx)
		if err != nil {
			fmt.Println("pagination failed:", err)
			return
		}
		fmt.Printf("  appended page: %d resources total, next=%q\n", coll.Count(), coll.NextURL)
	}
}

func demoSaveAndDelete(ctx context.Context, c *client.Client) {
	article := NewArticle().(*Article)
	article.SetTitle("Learning Go")
	article.SetBody("a first draft")

	saved, err := c.Save(ctx, article).Wait(ctx)
	if err != nil {
		fmt.Println("create failed:", err)
		return
	}
	created := saved.(*Article)
	fmt.Printf("  created %s: %q\n", created.ID, created.Title())

	created.SetTitle("Learning Go, Revised")
	if _, err := c.Save(ctx, created).Wait(ctx); err != nil {
		fmt.Println("update failed:", err)
		return
	}
	fmt.Printf("  updated %s: %q\n", created.ID, created.Title())

	if _, err := c.Delete(ctx, created).Wait(ctx); err != nil {
		fmt.Println("delete failed:", err)
		return
	}
	fmt.Printf("  deleted %s\n", created.ID)
}

func demoRelationships(ctx context.Context, c *client.Client) {
	article, err := c.FindOneByID(ctx, "articles", "1").Wait(ctx)
	if err != nil {
		fmt.Println("fetch failed:", err)
		return
	}
	a := article.(*Article)

	author := NewAuthor().(*Author)
	author.ID = "1"
	a.SetAuthor(author)

	tagOne := NewTag().(*Tag)
	tagOne.ID = "1"
	a.Tags().AddResource(tagOne)

	if _, err := c.Save(ctx, a).Wait(ctx); err != nil {
		fmt.Println("relationship save failed:", err)
		return
	}

	// reload from scratch to see what the server actually persisted, rather
	// than trusting the in-memory deltas the save cascade just cleared.
	a.Unload()
	resolved, err := c.Ensure(ctx, a, nil).Wait(ctx)
	if err != nil {
		fmt.Println("reload failed:", err)
		return
	}
	reloaded := resolved.(*Article)
	fmt.Printf("  article %s now has author %v and %d tag(s)\n",
		reloaded.ID, reloaded.Author() != nil, len(reloaded.Tags().Resources()))

	if author, ok := reloaded.Author().(*Author); ok {
		resolvedAuthor, err := c.Ensure(ctx, author, nil).Wait(ctx)
		if err != nil {
			fmt.Println("author ensure failed:", err)
			return
		}
		fmt.Printf("  author %s resolved to %q\n", author.ID, resolvedAuthor.(*Author).Name())
	}

	for _, r := range reloaded.Tags().Resources() {
		tag := r.(*Tag)
		resolvedTag, err := c.Ensure(ctx, tag, nil).Wait(ctx)
		if err != nil {
			fmt.Println("tag ensure failed:", err)
			continue
		}
		fmt.Printf("  tag %s resolved to %q\n", tag.ID, resolvedTag.(*Tag).Name())
	}
}

func demoEnsure(ctx context.Context, c *client.Client) {
	stub := NewArticle().(*Article)
	stub.ID = "2"

	resolved, err := c.Ensure(ctx, stub, nil).Wait(ctx)
	if err != nil {
		fmt.Println("ensure failed:", err)
		return
	}
	a := resolved.(*Article)
	fmt.Printf("  loaded stub %s: %q\n", a.ID, a.Title())
}

func demoBearerTransport() {
	secret := []byte("demo-secret")
	srv := httptest.NewServer(newDemoServer().Handler())
	defer srv.Close()

	bearer := transport.NewBearerTransport(nil, secret, jwt.MapClaims{"sub": "demo-client"})
	signed := transport.NewHTTPTransport(bearer)

	registry := newRegistry()
	c := client.New(srv.URL, registry, signed, nil, nil)
	defer c.Close()

	_, err := c.FindByType(context.Background(), "articles").Wait(context.Background())
	if err != nil {
		fmt.Println("bearer-signed find failed:", err)
		return
	}
	fmt.Println("  request succeeded carrying a fresh Authorization: Bearer header")

	time.Sleep(time.Millisecond) // let the demo server finish logging before main returns
}
