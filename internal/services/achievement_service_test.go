package services

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/repository"
	"go.uber.org/zap"
)

type failingAwardRepo struct {
	repository.AchievementRepository
}

func (f failingAwardRepo) Award(context.Context, uint64, []uint64, time.Time) error {
	return errors.New("disk full")
}

func (s *ServiceTestSuite) TestSeedCatalog_Idempotent() {
	added, err := s.achievementService.SeedCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, added)

	var count int64
	s.Require().NoError(s.db.Model(&models.Achievement{}).Count(&count).Error)
	s.Equal(int64(len(DefaultCatalog)), count)
}

func (s *ServiceTestSuite) TestEvaluate_FirstPost() {
	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "first"})
	s.Require().NoError(err)
	s.Equal([]string{"Первопроходец"}, achievementNames(result.Awarded))

	result, err = s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "second"})
	s.Require().NoError(err)
	s.Empty(result.Awarded)
}

func (s *ServiceTestSuite) TestEvaluate_FifthPostAwardsChatterbox() {
	for i := 0; i < 4; i++ {
		s.createPost(s.alice, "post", "")
	}

	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "fifth"})
	s.Require().NoError(err)
	s.Equal([]string{"Болтун"}, achievementNames(result.Awarded))
	s.Equal([]string{"Первопроходец", "Болтун"}, s.heldNames(s.alice.ID))
}

func (s *ServiceTestSuite) TestEvaluate_SeveralAwardsInOneCall() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.db.Create(&models.Post{AuthorID: s.alice.ID, Content: "imported"}).Error)
	}

	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "sixth"})
	s.Require().NoError(err)
	s.ElementsMatch([]string{"Первопроходец", "Болтун"}, achievementNames(result.Awarded))
}

func (s *ServiceTestSuite) TestEvaluate_VotesCast() {
	var res *VoteResult
	for i := 0; i < 10; i++ {
		post := s.createPost(s.alice, "post", "")
		var err error
		res, err = s.voteService.CastVote(s.ctx, s.bob.ID, post.ID, models.VoteDown)
		s.Require().NoError(err)
		if i < 9 {
			s.Empty(res.Awarded)
		}
	}
	s.Equal([]string{"Голосующий"}, achievementNames(res.Awarded))
}

func (s *ServiceTestSuite) TestEvaluate_TogglingDoesNotInflateVotesCast() {
	post := s.createPost(s.alice, "post", "")
	for i := 0; i < 20; i++ {
		_, err := s.voteService.CastVote(s.ctx, s.bob.ID, post.ID, models.VoteUp)
		s.Require().NoError(err)
	}
	s.Empty(s.heldNames(s.bob.ID))
}

func (s *ServiceTestSuite) TestEvaluate_PostScoreReached() {
	post := s.createPost(s.alice, "wise words", "")
	voters := s.createUsers("fan", 5)

	var res *VoteResult
	for i, v := range voters {
		var err error
		res, err = s.voteService.CastVote(s.ctx, v.ID, post.ID, models.VoteUp)
		s.Require().NoError(err)
		if i < 4 {
			s.Empty(res.AuthorAwarded)
		}
	}
	s.Equal(int64(5), res.Score)
	s.Equal([]string{"Мудрец"}, achievementNames(res.AuthorAwarded))
	// Voter counters are not the author's
	s.Empty(res.Awarded)
}

func (s *ServiceTestSuite) TestEvaluate_UpvotesReceivedAcrossPosts() {
	first := s.createPost(s.alice, "one", "")
	second := s.createPost(s.alice, "two", "")
	voters := s.createUsers("fan", 5)

	var res *VoteResult
	for _, v := range voters {
		var err error
		_, err = s.voteService.CastVote(s.ctx, v.ID, first.ID, models.VoteUp)
		s.Require().NoError(err)
		res, err = s.voteService.CastVote(s.ctx, v.ID, second.ID, models.VoteUp)
		s.Require().NoError(err)
	}
	s.Contains(achievementNames(res.AuthorAwarded), "Популярный")
	s.Contains(s.heldNames(s.alice.ID), "Популярный")
}

func (s *ServiceTestSuite) TestEvaluate_AwardsAreNeverRevoked() {
	post := s.createPost(s.alice, "only post", "")
	s.Equal([]string{"Первопроходец"}, s.heldNames(s.alice.ID))

	s.Require().NoError(s.postService.DeletePost(s.ctx, s.alice.ID, post.ID))
	s.Equal([]string{"Первопроходец"}, s.heldNames(s.alice.ID))

	// Recreating does not award twice
	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "again"})
	s.Require().NoError(err)
	s.Empty(result.Awarded)
}

func (s *ServiceTestSuite) TestEvaluate_UnknownConditionSkipped() {
	s.Require().NoError(s.db.Create(&models.Achievement{
		Name:          "Mystery",
		Description:   "?",
		Icon:          "?",
		ConditionType: models.ConditionType("logins"),
		Threshold:     1,
	}).Error)

	result, err := s.postService.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "first"})
	s.Require().NoError(err)
	s.Equal([]string{"Первопроходец"}, achievementNames(result.Awarded))
}

func (s *ServiceTestSuite) TestEvaluate_AwardFailureKeepsPost() {
	log := zap.NewNop()
	evaluator := NewAchievementService(failingAwardRepo{s.achievementRepo}, s.postRepo, s.voteRepo, log)
	posts := NewPostService(s.postRepo, repository.NewReplyRepository(s.db), s.userRepo, s.tagService, evaluator, log)

	result, err := posts.CreatePost(s.ctx, CreatePostInput{AuthorID: s.alice.ID, Content: "survives"})
	s.Require().NoError(err)
	s.Empty(result.Awarded)

	awarded, err := evaluator.Evaluate(s.ctx, s.alice.ID, Event{Type: EventPostCreated})
	s.Error(err)
	s.Nil(awarded)

	stored, err := s.postRepo.FindByID(s.ctx, result.Post.ID)
	s.Require().NoError(err)
	s.Equal("survives", stored.Content)
	s.Empty(s.heldNames(s.alice.ID))
}
