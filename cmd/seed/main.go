package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"my-social/config"
	"my-social/database"
	models "my-social/model"
	"my-social/repository"
	"my-social/slotstore"
)

const demoPassword = "password123"

type demoUser struct {
	username string
	nickname string
	bio      string
}

var demoUsers = []demoUser{
	{"choco_mom", "초코맘", "푸들 초코와 함께 살아요"},
	{"nabi_cat", "나비집사", "고양이 나비의 일상"},
	{"dubu_dad", "두부아빠", "시바견 두부 산책 기록"},
}

var demoPosts = []struct {
	author  int
	title   string
	content string
}{
	{0, "초코 미용했어요", "여름맞이 짧은 컷! 다들 어떠세요?"},
	{1, "캣타워 추천 부탁드려요", "10kg 넘는 대형묘도 버티는 캣타워 있을까요?"},
	{2, "한강 산책 코스", "반포 쪽 산책로가 강아지들 많아서 좋아요."},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}

	dbCfg, err := config.LoadDatabaseConfig("")
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	dbConn, err := database.NewConnection(database.Config{
		Driver:       dbCfg.Driver,
		DSN:          dbCfg.DSN(),
		MaxOpenConns: dbCfg.MaxOpenConns,
		MaxIdleConns: dbCfg.MaxIdleConns,
		MaxLifetime:  dbCfg.MaxLifetime,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	ctx := context.Background()
	if _, err := dbConn.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// An in-memory slot store would vanish with this process.
	redisCfg := config.LoadRedisConfig()
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to redis at %s: %v", redisCfg.Addr, err)
	}
	slots := slotstore.New(slotstore.NewRedisStore(client, redisCfg.KeyPrefix), slotstore.NewMonotonicClock())

	users := repository.NewUserRepository(dbConn.DB)
	posts := repository.NewPostRepository(dbConn.DB)
	guestbook := repository.NewGuestbookRepository(dbConn.DB)
	localUsers := repository.NewLocalUserRepository(slots)
	localPosts := repository.NewLocalPostRepository(slots)
	messages := repository.NewMessageRepository(slots)
	follows := repository.NewFollowRepository(slots)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	seeded := make([]*models.User, 0, len(demoUsers))
	for _, du := range demoUsers {
		user := &models.User{
			Username:     du.username,
			PasswordHash: string(hash),
			Nickname:     du.nickname,
			Bio:          du.bio,
		}
		if err := users.Create(ctx, user); err != nil {
			if !errors.Is(err, repository.ErrAlreadyExists) {
				log.Fatalf("Failed to create user %s: %v", du.username, err)
			}
			if user, err = users.GetByUsername(ctx, du.username); err != nil {
				log.Fatalf("Failed to load user %s: %v", du.username, err)
			}
		}
		if err := localUsers.Upsert(ctx, *user); err != nil {
			log.Fatalf("Failed to mirror user %s: %v", du.username, err)
		}
		seeded = append(seeded, user)
	}
	log.Printf("Seeded %d users (password %q)", len(seeded), demoPassword)

	for _, dp := range demoPosts {
		author := seeded[dp.author]
		post := &models.Post{
			UserID:         author.ID,
			Title:          dp.title,
			Content:        dp.content,
			AuthorNickname: author.Nickname,
		}
		if err := posts.Create(ctx, post); err != nil {
			log.Fatalf("Failed to create post %q: %v", dp.title, err)
		}
		if _, err := localPosts.Create(ctx, *post, nil); err != nil {
			log.Fatalf("Failed to mirror post %d: %v", post.ID, err)
		}
	}
	log.Printf("Seeded %d posts", len(demoPosts))

	a, b, c := seeded[0].ID, seeded[1].ID, seeded[2].ID
	for _, edge := range [][2]int64{{a, b}, {b, a}, {c, a}} {
		if _, err := follows.Toggle(ctx, edge[0], edge[1]); err != nil {
			log.Fatalf("Failed to follow: %v", err)
		}
	}

	chat := []struct {
		from, to int64
		content  string
	}{
		{a, b, "나비 요즘 잘 지내요?"},
		{b, a, "네! 캣타워 새로 샀어요"},
		{c, a, "주말에 같이 산책해요"},
	}
	for _, m := range chat {
		if _, err := messages.Send(ctx, m.from, m.to, m.content); err != nil {
			log.Fatalf("Failed to send message: %v", err)
		}
	}

	if err := guestbook.Create(ctx, &models.GuestbookEntry{
		AuthorName: "방문자",
		Job:        "개발자",
		Content:    "포트폴리오 잘 보고 갑니다!",
	}); err != nil {
		log.Fatalf("Failed to create guestbook entry: %v", err)
	}

	log.Println("Seed complete")
}
