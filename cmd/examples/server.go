package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// demoServer is a minimal, in-memory JSON:API backend, just enough of one to
// drive every client operation this demo exercises: paginated collection
// reads, single-resource reads, create, update, delete, and relationship
// mutation. It hand-builds wire documents directly rather than reusing the
// client's own serializer, the way a real server never shares code with the
// clients that call it.
type demoServer struct {
	mu       sync.Mutex
	authors  map[string]map[string]interface{}
	tags     map[string]map[string]interface{}
	articles map[string]*demoArticle
	nextID   int
}

type demoArticle struct {
	attrs    map[string]interface{}
	authorID string
	tagIDs   []string
}

func newDemoServer() *demoServer {
	s := &demoServer{
		authors:  map[string]map[string]interface{}{},
		tags:     map[string]map[string]interface{}{},
		articles: map[string]*demoArticle{},
	}
	s.authors["1"] = map[string]interface{}{"name": "Ada Lovelace"}
	s.tags["1"] = map[string]interface{}{"name": "go"}
	s.tags["2"] = map[string]interface{}{"name": "jsonapi"}
	for i := 1; i <= 5; i++ {
		id := strconv.Itoa(i)
		s.articles[id] = &demoArticle{
			attrs:    map[string]interface{}{"title": fmt.Sprintf("Article %s", id), "body": "placeholder body"},
			authorID: "1",
		}
	}
	s.nextID = 6
	return s
}

func (s *demoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/articles", s.handleArticleCollection)
	mux.HandleFunc("/articles/", s.handleArticleItemOrRelationship)
	mux.HandleFunc("/authors/", s.handleAuthorItem)
	mux.HandleFunc("/tags/", s.handleTagItem)
	return mux
}

func (s *demoServer) handleArticleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listArticles(w, r)
	case http.MethodPost:
		s.createArticle(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// listArticles returns a fixed page size of 2, advancing via
// page[number] so [client.Client.LoadNextPageOfCollection] has a next link
// to follow.
func (s *demoServer) listArticles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	const pageSize = 2
	page := 1
	if v := r.URL.Query().Get("page[number]"); v != "" {
		page, _ = strconv.Atoi(v)
	}

	ids := sortedKeys(s.articles)
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(ids) {
		start = len(ids)
	}
	if end > len(ids) {
		end = len(ids)
	}

	data := make([]interface{}, 0, end-start)
	for _, id := range ids[start:end] {
		data = append(data, s.articleResource(id))
	}

	links := map[string]interface{}{}
	if end < len(ids) {
		links["next"] = fmt.Sprintf("http://%s/articles?page[number]=%d", r.Host, page+1)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data, "links": links})
}

func (s *demoServer) createArticle(w http.ResponseWriter, r *http.Request) {
	var doc wireDoc
	if !decodeBody(w, r, &doc) {
		return
	}
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		fmt.Printf("  server saw Idempotency-Key: %s\n", key)
	}

	s.mu.Lock()
	id := strconv.Itoa(s.nextID)
	s.nextID++
	s.articles[id] = &demoArticle{attrs: doc.Data.Attributes}
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]interface{}{"data": s.articleResource(id)})
}

func (s *demoServer) handleArticleItemOrRelationship(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/articles/")
	parts := strings.Split(rest, "/")
	id := parts[0]

	if len(parts) == 1 {
		s.handleArticleItem(w, r, id)
		return
	}
	if len(parts) == 3 && parts[1] == "relationships" {
		s.handleArticleRelationship(w, r, id, parts[2])
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (s *demoServer) handleArticleItem(w http.ResponseWriter, r *http.Request, id string) {
	s.mu.Lock()
	_, ok := s.articles[id]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"errors": []map[string]interface{}{{"status": "404", "title": "article not found"}},
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		body := map[string]interface{}{"data": s.articleResource(id)}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, body)
	case http.MethodPatch:
		var doc wireDoc
		if !decodeBody(w, r, &doc) {
			return
		}
		s.mu.Lock()
		for k, v := range doc.Data.Attributes {
			s.articles[id].attrs[k] = v
		}
		body := map[string]interface{}{"data": s.articleResource(id)}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, body)
	case http.MethodDelete:
		s.mu.Lock()
		delete(s.articles, id)
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *demoServer) handleArticleRelationship(w http.ResponseWriter, r *http.Request, id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	article, ok := s.articles[id]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch name {
	case "author":
		if r.Method != http.MethodPatch {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var doc wireRelDoc
		if !decodeBody(w, r, &doc) {
			return
		}
		if doc.Data == nil {
			article.authorID = ""
		} else {
			article.authorID = doc.Data.ID
		}
		w.WriteHeader(http.StatusNoContent)
	case "tags":
		var doc wireRelManyDoc
		switch r.Method {
		case http.MethodPost:
			if !decodeBody(w, r, &doc) {
				return
			}
			for _, ref := range doc.Data {
				article.tagIDs = append(article.tagIDs, ref.ID)
			}
			w.WriteHeader(http.StatusNoContent)
		case http.MethodDelete:
			if !decodeBody(w, r, &doc) {
				return
			}
			remove := map[string]bool{}
			for _, ref := range doc.Data {
				remove[ref.ID] = true
			}
			kept := article.tagIDs[:0]
			for _, t := range article.tagIDs {
				if !remove[t] {
					kept = append(kept, t)
				}
			}
			article.tagIDs = kept
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (s *demoServer) handleAuthorItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/authors/")
	s.mu.Lock()
	attrs, ok := s.authors[id]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{
		"type": "authors", "id": id, "attributes": attrs,
	}})
}

func (s *demoServer) handleTagItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/tags/")
	s.mu.Lock()
	attrs, ok := s.tags[id]
	s.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{
		"type": "tags", "id": id, "attributes": attrs,
	}})
}

// articleResource builds the wire resource object for id. Caller holds s.mu.
func (s *demoServer) articleResource(id string) map[string]interface{} {
	a := s.articles[id]
	rels := map[string]interface{}{}
	if a.authorID != "" {
		rels["author"] = map[string]interface{}{"data": map[string]interface{}{"type": "authors", "id": a.authorID}}
	} else {
		rels["author"] = map[string]interface{}{"data": nil}
	}
	tagData := make([]interface{}, len(a.tagIDs))
	for i, t := range a.tagIDs {
		tagData[i] = map[string]interface{}{"type": "tags", "id": t}
	}
	rels["tags"] = map[string]interface{}{"data": tagData}
	return map[string]interface{}{
		"type":          "articles",
		"id":            id,
		"attributes":    a.attrs,
		"relationships": rels,
	}
}

type wireResourceBody struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id"`
	Attributes map[string]interface{} `json:"attributes"`
}

type wireDoc struct {
	Data wireResourceBody `json:"data"`
}

type wireRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type wireRelDoc struct {
	Data *wireRef `json:"data"`
}

type wireRelManyDoc struct {
	Data []wireRef `json:"data"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": []map[string]interface{}{{"status": "400", "title": err.Error()}},
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sortedKeys(m map[string]*demoArticle) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && lessNumeric(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func lessNumeric(a, b string) bool {
	an, _ := strconv.Atoi(a)
	bn, _ := strconv.Atoi(b)
	return an < bn
}
