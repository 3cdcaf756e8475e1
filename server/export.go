package server

// Export endpoints serve the last generated results as plain-text attachment
// downloads, mirroring the original operator workflow of saving each piece
// of content to a file. Nothing is persisted; the cache lives and dies with
// the process.

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/postforge/postforge/agent"
	"github.com/postforge/postforge/social"
)

// resultCache holds the last generated artifacts for read-back and export
type resultCache struct {
	mu     sync.RWMutex
	blog   *agent.GeneratedPost
	plan   string
	social map[social.Channel]string
}

func (rc *resultCache) setBlog(post *agent.GeneratedPost) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.blog = post
}

func (rc *resultCache) Blog() *agent.GeneratedPost {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.blog
}

func (rc *resultCache) setPlan(plan string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.plan = plan
}

func (rc *resultCache) Plan() string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.plan
}

func (rc *resultCache) setSocial(posts map[social.Channel]string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.social = posts
}

func (rc *resultCache) Social(ch social.Channel) (string, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	content, ok := rc.social[ch]
	return content, ok
}

// HandleExportBlog serves the last generated blog post as blog_post.txt
func (s *Server) HandleExportBlog(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	post := s.results.Blog()
	if post == nil {
		writeError(w, http.StatusNotFound, "no blog post generated yet")
		return
	}

	serveAttachment(w, "blog_post.txt", post.Title+"\n\n"+post.Body)
}

// HandleExportPlan serves the last weekly plan as weekly_content_plan.txt
func (s *Server) HandleExportPlan(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	plan := s.results.Plan()
	if plan == "" {
		writeError(w, http.StatusNotFound, "no content plan generated yet")
		return
	}

	serveAttachment(w, "weekly_content_plan.txt", plan)
}

// HandleExportSocial serves one channel's last post as {channel}_post.txt.
// The channel is selected with ?channel=; names are case-insensitive.
func (s *Server) HandleExportSocial(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("channel"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "channel query parameter is required")
		return
	}

	ch := social.Normalize(raw)
	content, ok := s.results.Social(ch)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no %s post generated yet", ch))
		return
	}

	serveAttachment(w, fmt.Sprintf("%s_post.txt", ch), content)
}

// serveAttachment writes content as a plain-text file download
func serveAttachment(w http.ResponseWriter, filename, content string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}
