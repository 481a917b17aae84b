package service

import (
	"context"
	"sync"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"
)

// commentGateway is the slice of the gateway the thread controller needs.
type commentGateway interface {
	PostByID(ctx context.Context, token, postID string) (*models.Post, error)
	Comments(ctx context.Context, token, postID string, limit, offset int) ([]*models.Comment, error)
	Replies(ctx context.Context, token, commentID string, limit, offset int) ([]*models.Comment, error)
	CreateComment(ctx context.Context, token string, input gateway.NewComment) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, commentID string) error
}

const (
	// MaxCommentDepth caps how deep a reply can be authored: comments at
	// depths 0 through 3 take replies, a depth-4 comment does not. Reading
	// is unlimited: replies under a depth-4 comment still expand, there is
	// just no reply box on them.
	MaxCommentDepth = 4

	initialCommentsLimit = 20
	maxCommentLen        = 10000
)

// CommentService builds and mutates comment threads for post pages.
type CommentService struct {
	gw commentGateway
}

func NewCommentService(gw commentGateway) *CommentService {
	return &CommentService{gw: gw}
}

// Thread is the live comment tree under one post for one viewer. Reply
// lists under each comment load lazily, five at a time, and survive
// collapse so re-expanding costs nothing.
type Thread struct {
	mu sync.Mutex

	svc    *CommentService
	token  string
	viewer *models.Viewer

	Post     *models.Post
	topLevel *query.Pager[*models.Comment]
	nodes    map[string]*ThreadNode
	roots    []*ThreadNode
	deleted  map[string]bool
}

// ThreadNode is one comment plus its expansion state. Depth starts at 0
// for top-level comments.
type ThreadNode struct {
	Comment  *models.Comment
	Depth    int
	Expanded bool

	replies  *query.Pager[*models.Comment]
	children []*ThreadNode
}

// CanReply reports whether a reply box belongs under this comment.
func (n *ThreadNode) CanReply() bool {
	return n.Depth < MaxCommentDepth
}

// HasMoreReplies reports whether another reply page may exist under this
// comment. Before any expansion it goes by the server's replies counter;
// afterwards a full page only suggests more when the counter says so, which
// spares the empty probe after an exactly page-sized list.
func (n *ThreadNode) HasMoreReplies() bool {
	if !n.replies.Loaded() {
		return n.Comment.RepliesCount > 0
	}
	if !n.replies.HasMore() {
		return false
	}
	return len(n.replies.Items()) < n.Comment.RepliesCount
}

// Children returns the loaded, visible replies in server order.
func (n *ThreadNode) Children() []*ThreadNode {
	return n.children
}

// CanModify reports whether the viewer may edit or delete the comment:
// its author, or an admin.
func CanModify(viewer *models.Viewer, c *models.Comment) bool {
	if viewer == nil {
		return false
	}
	if viewer.IsAdmin {
		return true
	}
	return c.Author != nil && c.Author.ID == viewer.ID
}

// LoadThread fetches a post with its opening comment page and wraps it in
// a thread. The post itself is served cache-aside; a null post surfaces
// as not-found. viewer may be nil for anonymous reads.
func (s *CommentService) LoadThread(ctx context.Context, token string, viewer *models.Viewer, postID string) (*Thread, error) {
	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}

	var post *models.Post
	err := cache.Aside(ctx, cache.PostKey(postID, viewerID), &post, cache.PostTTL, func() error {
		fetched, err := s.gw.PostByID(ctx, token, postID)
		if err != nil {
			return err
		}
		post = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}

	t := &Thread{
		svc:     s,
		token:   token,
		viewer:  viewer,
		Post:    post,
		nodes:   make(map[string]*ThreadNode),
		deleted: make(map[string]bool),
	}
	t.topLevel = query.NewPager(initialCommentsLimit, func(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
		return s.gw.Comments(ctx, token, postID, limit, offset)
	})
	t.topLevel.Seed(post.Comments)
	t.syncRoots()
	return t, nil
}

// Comments returns the visible top-level comments.
func (t *Thread) Comments() []*ThreadNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roots
}

// HasMoreComments reports whether another top-level page may exist.
func (t *Thread) HasMoreComments() bool {
	return t.topLevel.HasMore()
}

// LoadMoreComments fetches the next top-level page.
func (t *Thread) LoadMoreComments(ctx context.Context) error {
	if _, err := t.topLevel.LoadMore(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncRoots()
	return nil
}

// Node looks up a loaded comment anywhere in the tree.
func (t *Thread) Node(commentID string) (*ThreadNode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[commentID]
	return n, ok
}

// Expand opens a comment's reply list, fetching the first page only on
// the first expansion. Re-expanding after a collapse reuses the loaded
// pages without touching the network.
func (t *Thread) Expand(ctx context.Context, commentID string) error {
	t.mu.Lock()
	n, ok := t.nodes[commentID]
	if !ok {
		t.mu.Unlock()
		return models.NewNotFoundError("comment", commentID)
	}
	n.Expanded = true
	needFetch := !n.replies.Loaded() && n.Comment.RepliesCount > 0
	t.mu.Unlock()

	if !needFetch {
		return nil
	}
	return t.loadReplies(ctx, n)
}

// Collapse hides a comment's replies. Loaded pages are kept.
func (t *Thread) Collapse(commentID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.nodes[commentID]; ok {
		n.Expanded = false
	}
}

// LoadMoreReplies fetches the next reply page under an expanded comment.
func (t *Thread) LoadMoreReplies(ctx context.Context, commentID string) error {
	t.mu.Lock()
	n, ok := t.nodes[commentID]
	t.mu.Unlock()
	if !ok {
		return models.NewNotFoundError("comment", commentID)
	}
	return t.loadReplies(ctx, n)
}

func (t *Thread) loadReplies(ctx context.Context, n *ThreadNode) error {
	if _, err := n.replies.LoadMore(ctx); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.syncChildren(n)
	return nil
}

// Reply authors a comment under parentID, or a top-level comment when
// parentID is empty. The affected list reloads from the server so ordering
// stays authoritative.
func (t *Thread) Reply(ctx context.Context, parentID, content string) (*models.Comment, error) {
	if t.token == "" || t.viewer == nil {
		return nil, models.NewUnauthorizedError("sign in to comment")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	input := gateway.NewComment{PostID: t.Post.ID, Content: content}
	var parent *ThreadNode
	if parentID != "" {
		t.mu.Lock()
		n, ok := t.nodes[parentID]
		t.mu.Unlock()
		if !ok {
			return nil, models.NewNotFoundError("comment", parentID)
		}
		if !n.CanReply() {
			return nil, models.NewValidationError("Maximum reply depth reached")
		}
		parent = n
		input.ParentID = &parentID
	}

	created, err := t.svc.gw.CreateComment(ctx, t.token, input)
	if err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, t.Post.ID)
	if parent != nil {
		cache.InvalidateReplies(ctx, parentID)
	}

	t.mu.Lock()
	t.Post.CommentsCount++
	t.mu.Unlock()

	if parent != nil {
		t.mu.Lock()
		parent.Comment.RepliesCount++
		wasLoaded := parent.replies.Loaded()
		t.mu.Unlock()
		if wasLoaded {
			parent.replies.Reset()
			if err := t.loadReplies(ctx, parent); err != nil {
				return created, err
			}
		}
	} else {
		t.topLevel.Reset()
		if err := t.LoadMoreComments(ctx); err != nil {
			return created, err
		}
	}
	return created, nil
}

// Edit rewrites a comment's content. Only the author or an admin may edit.
func (t *Thread) Edit(ctx context.Context, commentID, content string) error {
	t.mu.Lock()
	n, ok := t.nodes[commentID]
	t.mu.Unlock()
	if !ok {
		return models.NewNotFoundError("comment", commentID)
	}
	if !CanModify(t.viewer, n.Comment) {
		return models.NewUnauthorizedError("You can only edit your own comments")
	}
	if content == "" {
		return models.NewValidationError("Content is required")
	}

	updated, err := t.svc.gw.UpdateComment(ctx, t.token, commentID, content)
	if err != nil {
		return err
	}

	t.mu.Lock()
	n.Comment.Content = updated.Content
	n.Comment.IsEdited = updated.IsEdited
	t.mu.Unlock()

	cache.InvalidatePost(ctx, t.Post.ID)
	if n.Comment.ParentID != nil {
		cache.InvalidateReplies(ctx, *n.Comment.ParentID)
	}
	return nil
}

// Delete removes a comment and hides it from the tree. Counters on the
// parent and post follow.
func (t *Thread) Delete(ctx context.Context, commentID string) error {
	t.mu.Lock()
	n, ok := t.nodes[commentID]
	t.mu.Unlock()
	if !ok {
		return models.NewNotFoundError("comment", commentID)
	}
	if !CanModify(t.viewer, n.Comment) {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}

	if err := t.svc.gw.DeleteComment(ctx, t.token, commentID); err != nil {
		return err
	}

	t.mu.Lock()
	t.deleted[commentID] = true
	delete(t.nodes, commentID)
	if n.Comment.ParentID != nil {
		if parent, ok := t.nodes[*n.Comment.ParentID]; ok {
			if parent.Comment.RepliesCount > 0 {
				parent.Comment.RepliesCount--
			}
			t.syncChildren(parent)
		}
		cache.InvalidateReplies(ctx, *n.Comment.ParentID)
	} else {
		t.syncRoots()
	}
	if t.Post.CommentsCount > 0 {
		t.Post.CommentsCount--
	}
	t.mu.Unlock()

	cache.InvalidatePost(ctx, t.Post.ID)
	return nil
}

// syncRoots rebuilds the top-level node list from the pager's pages.
// Existing nodes are reused so expansion state and loaded reply pages
// survive a resync. Callers hold t.mu.
func (t *Thread) syncRoots() {
	items := t.topLevel.Items()
	roots := make([]*ThreadNode, 0, len(items))
	for _, c := range items {
		if t.deleted[c.ID] {
			continue
		}
		roots = append(roots, t.node(c, 0))
	}
	t.roots = roots
}

// syncChildren rebuilds a node's child list from its reply pager.
// Callers hold t.mu.
func (t *Thread) syncChildren(n *ThreadNode) {
	items := n.replies.Items()
	children := make([]*ThreadNode, 0, len(items))
	for _, c := range items {
		if t.deleted[c.ID] {
			continue
		}
		pid := n.Comment.ID
		if c.ParentID == nil {
			c.ParentID = &pid
		}
		children = append(children, t.node(c, n.Depth+1))
	}
	n.children = children
}

// node returns the existing node for a comment or registers a new one with
// a lazy reply pager. Callers hold t.mu.
func (t *Thread) node(c *models.Comment, depth int) *ThreadNode {
	if n, ok := t.nodes[c.ID]; ok {
		return n
	}
	viewerID := ""
	if t.viewer != nil {
		viewerID = t.viewer.ID
	}
	n := &ThreadNode{Comment: c, Depth: depth}
	commentID := c.ID
	n.replies = query.NewPager(query.RepliesPageSize, func(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
		var page []*models.Comment
		key := cache.RepliesKey(commentID, viewerID, limit, offset)
		err := cache.Aside(ctx, key, &page, cache.RepliesTTL, func() error {
			fetched, err := t.svc.gw.Replies(ctx, t.token, commentID, limit, offset)
			if err != nil {
				return err
			}
			page = fetched
			return nil
		})
		return page, err
	})
	t.nodes[c.ID] = n
	return n
}

// TopComments returns one page of top-level comments without thread
// state. Backs the page-by-page comment endpoint.
func (s *CommentService) TopComments(ctx context.Context, token, postID string, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 {
		limit = initialCommentsLimit
	}
	return s.gw.Comments(ctx, token, postID, limit, offset)
}

// Replies returns one page of replies under a comment, served cache-aside
// per viewer.
func (s *CommentService) Replies(ctx context.Context, token, viewerID, commentID string, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 {
		limit = query.RepliesPageSize
	}
	var page []*models.Comment
	key := cache.RepliesKey(commentID, viewerID, limit, offset)
	err := cache.Aside(ctx, key, &page, cache.RepliesTTL, func() error {
		fetched, err := s.gw.Replies(ctx, token, commentID, limit, offset)
		if err != nil {
			return err
		}
		page = fetched
		return nil
	})
	return page, err
}

// CreateComment authors a comment outside thread state. Depth policy is
// left to the backend here since the parent's depth is not loaded.
func (s *CommentService) CreateComment(ctx context.Context, token string, input gateway.NewComment) (*models.Comment, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to comment")
	}
	if input.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(input.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	created, err := s.gw.CreateComment(ctx, token, input)
	if err != nil {
		return nil, err
	}
	cache.InvalidatePost(ctx, input.PostID)
	if input.ParentID != nil {
		cache.InvalidateReplies(ctx, *input.ParentID)
	}
	return created, nil
}

// EditComment rewrites a comment. Ownership is enforced upstream; a
// refusal surfaces as an unauthorized error.
func (s *CommentService) EditComment(ctx context.Context, token, postID, commentID, content string) (*models.Comment, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to edit comments")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	updated, err := s.gw.UpdateComment(ctx, token, commentID, content)
	if err != nil {
		return nil, err
	}
	if postID != "" {
		cache.InvalidatePost(ctx, postID)
	}
	cache.InvalidateReplies(ctx, commentID)
	return updated, nil
}

// RemoveComment deletes a comment. Ownership is enforced upstream.
func (s *CommentService) RemoveComment(ctx context.Context, token, postID, commentID string) error {
	if token == "" {
		return models.NewUnauthorizedError("sign in to delete comments")
	}
	if err := s.gw.DeleteComment(ctx, token, commentID); err != nil {
		return err
	}
	if postID != "" {
		cache.InvalidatePost(ctx, postID)
	}
	cache.InvalidateReplies(ctx, commentID)
	return nil
}
