package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/testutil"
	"gorm.io/gorm"
)

type PostRepositoryTestSuite struct {
	suite.Suite
	db     *gorm.DB
	ctx    context.Context
	posts  PostRepository
	tags   TagRepository
	author *models.User
}

func TestPostRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PostRepositoryTestSuite))
}

func (s *PostRepositoryTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.ctx = context.Background()
	s.posts = NewPostRepository(s.db)
	s.tags = NewTagRepository(s.db)
	s.author = testutil.CreateUser(s.T(), s.db, "author", false)
}

func (s *PostRepositoryTestSuite) create(content string, tags ...string) *models.Post {
	post := &models.Post{AuthorID: s.author.ID, Content: content}
	s.Require().NoError(s.posts.CreateWithTags(s.ctx, post, tags))
	return post
}

func (s *PostRepositoryTestSuite) TestCreateWithTags_FindOrCreate() {
	first := s.create("one", "go", "news")
	second := s.create("two", "go")

	s.Len(first.Tags, 2)
	s.Equal(first.Tags[0].ID, second.Tags[0].ID)

	all, err := s.tags.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *PostRepositoryTestSuite) TestCreateWithTags_NamesAreCaseSensitive() {
	upper := s.create("one", "News")
	lower := s.create("two", "news")
	yo := s.create("three", "ёж")
	ye := s.create("four", "еж")

	s.NotEqual(upper.Tags[0].ID, lower.Tags[0].ID)
	s.NotEqual(yo.Tags[0].ID, ye.Tags[0].ID)

	tag, err := s.tags.FindByName(s.ctx, "news")
	s.Require().NoError(err)
	s.Equal(lower.Tags[0].ID, tag.ID)

	all, err := s.tags.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 4)
}

func (s *PostRepositoryTestSuite) TestUpdateWithTags_ReturnsPrevious() {
	post := s.create("one", "go", "news")

	post.Content = "edited"
	post.EditCount = 1
	previous, err := s.posts.UpdateWithTags(s.ctx, post, []string{"rust"})
	s.Require().NoError(err)
	s.Len(previous, 2)

	stored, err := s.posts.FindByID(s.ctx, post.ID, "Tags")
	s.Require().NoError(err)
	s.Equal("edited", stored.Content)
	s.Equal([]string{"rust"}, stored.TagNames())

	deleted, err := s.tags.DeleteOrphans(s.ctx, previous)
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)
}

func (s *PostRepositoryTestSuite) TestUpdateWithTags_ClearsTags() {
	post := s.create("one", "go")

	_, err := s.posts.UpdateWithTags(s.ctx, post, nil)
	s.Require().NoError(err)

	stored, err := s.posts.FindByID(s.ctx, post.ID, "Tags")
	s.Require().NoError(err)
	s.Empty(stored.Tags)
}

func (s *PostRepositoryTestSuite) TestDelete() {
	post := s.create("one", "go")
	s.Require().NoError(s.db.Create(&models.Reply{PostID: post.ID, AuthorID: s.author.ID, Content: "r"}).Error)

	tagIDs, err := s.posts.Delete(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Len(tagIDs, 1)

	_, err = s.posts.FindByID(s.ctx, post.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = s.posts.Delete(s.ctx, post.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *PostRepositoryTestSuite) TestListFeed_TagFilter() {
	s.create("plain")
	tagged := s.create("tagged", "go")

	all, err := s.posts.ListFeed(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.Equal("author", all[0].Author.Username)

	tagID := tagged.Tags[0].ID
	filtered, err := s.posts.ListFeed(s.ctx, &tagID)
	s.Require().NoError(err)
	s.Require().Len(filtered, 1)
	s.Equal(tagged.ID, filtered[0].ID)
}

func (s *PostRepositoryTestSuite) TestListSince() {
	first := s.create("one")
	second := s.create("two")
	s.Require().NoError(s.posts.SetPinned(s.ctx, first.ID, true))
	third := s.create("three")

	posts, err := s.posts.ListSince(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(first.ID, posts[0].ID)
	s.Equal(third.ID, posts[1].ID)

	count, err := s.posts.CountByAuthor(s.ctx, s.author.ID)
	s.Require().NoError(err)
	s.Equal(int64(3), count)
}
