package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/cache"
	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/database"
	"github.com/foyezullahnishan/MovieAPI/routes"
	"github.com/foyezullahnishan/MovieAPI/utils"
)

const testSecret = "controller-test-secret"

type testEnv struct {
	router     *gin.Engine
	client     *mongo.Client
	dbName     string
	adminToken string
	userToken  string
}

// newTestEnv wires the full route table against a throwaway database. Tests
// are skipped when no Mongo instance is provided.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, cache.New(nil, 0))
}

func newTestEnvWithCache(t *testing.T, movieCache *cache.MovieCache) *testEnv {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping Mongo-backed tests")
	}

	client, err := database.Connect(uri)
	require.NoError(t, err)

	dbName := fmt.Sprintf("movie_catalog_test_%d", time.Now().UnixNano())
	cfg := config.Config{DBName: dbName, JWTSecret: testSecret}

	require.NoError(t, database.EnsureIndexes(client, dbName))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes.Unprotected(router, client, cfg)
	routes.Protected(router, client, cfg, movieCache)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(dbName).Drop(ctx)
		database.Disconnect(client)
	})

	adminToken, err := utils.GenerateToken(bson.NewObjectID().Hex(), "admin", "admin", testSecret)
	require.NoError(t, err)
	userToken, err := utils.GenerateToken(bson.NewObjectID().Hex(), "user", "user", testSecret)
	require.NoError(t, err)

	return &testEnv{
		router:     router,
		client:     client,
		dbName:     dbName,
		adminToken: adminToken,
		userToken:  userToken,
	}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (env *testEnv) createDirector(t *testing.T, name string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/directors", env.adminToken,
		map[string]interface{}{"name": name, "birthYear": 1970, "bio": "bio"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func (env *testEnv) createActor(t *testing.T, name string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/actors", env.adminToken,
		map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func (env *testEnv) createGenre(t *testing.T, name string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/genres", env.adminToken,
		map[string]interface{}{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func (env *testEnv) createMovie(t *testing.T, title, directorID string, actorIDs, genreIDs []string) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/movies", env.adminToken, map[string]interface{}{
		"title":       title,
		"releaseYear": 2010,
		"plot":        "plot",
		"runtime":     120,
		"director":    directorID,
		"actors":      actorIDs,
		"genres":      genreIDs,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["_id"].(string)
}

func movieIDs(t *testing.T, entity map[string]interface{}) []string {
	t.Helper()
	raw, ok := entity["movies"].([]interface{})
	require.True(t, ok, "movies field missing: %v", entity)
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		ids = append(ids, v.(string))
	}
	return ids
}

func TestRegisterLoginProfile(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode(t, w)
	assert.Equal(t, "user", registered["role"])
	assert.NotEmpty(t, registered["token"])

	// duplicate registration
	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	profile := decode(t, w)
	assert.Equal(t, "alice", profile["username"])
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a valid token whose user no longer exists is not authenticated
	w = env.do(t, http.MethodGet, "/api/auth/profile", env.userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNonAdminGetsForbiddenOnWrites(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/directors", env.userToken,
		map[string]interface{}{"name": "Denied"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 403 takes precedence over 404: the id does not exist, but the role
	// gate runs before any lookup.
	w = env.do(t, http.MethodDelete, "/api/movies/"+bson.NewObjectID().Hex(), env.userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPut, "/api/genres/"+bson.NewObjectID().Hex(), env.userToken,
		map[string]interface{}{"name": "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMovieCreateMaintainsBackReferences(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Christopher Nolan")
	actor1 := env.createActor(t, "Leonardo DiCaprio")
	actor2 := env.createActor(t, "Elliot Page")
	genreID := env.createGenre(t, "Science Fiction")

	movieID := env.createMovie(t, "Inception", directorID, []string{actor1, actor2}, []string{genreID})

	for _, tc := range []struct{ path string }{
		{"/api/directors/" + directorID},
		{"/api/actors/" + actor1},
		{"/api/actors/" + actor2},
		{"/api/genres/" + genreID},
	} {
		w := env.do(t, http.MethodGet, tc.path, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, movieIDs(t, decode(t, w)), movieID, tc.path)
	}

	w := env.do(t, http.MethodGet, "/api/directors/"+directorID+"/movies", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	movies := decodeList(t, w)
	require.Len(t, movies, 1)
	assert.Equal(t, "Inception", movies[0]["title"])
	director := movies[0]["director"].(map[string]interface{})
	assert.Equal(t, "Christopher Nolan", director["name"])
}

func TestMovieCreateRequiresExistingDirector(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/movies", env.adminToken, map[string]interface{}{
		"title":       "Orphan",
		"releaseYear": 2020,
		"plot":        "plot",
		"runtime":     90,
		"director":    bson.NewObjectID().Hex(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/movies", env.adminToken, map[string]interface{}{
		"title": "Missing everything",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReferencedEntitiesCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Steven Spielberg")
	actorID := env.createActor(t, "Tom Hanks")
	genreID := env.createGenre(t, "Drama")
	env.createMovie(t, "Saving Private Ryan", directorID, []string{actorID}, []string{genreID})

	w := env.do(t, http.MethodDelete, "/api/directors/"+directorID, env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete director that is associated with movies")

	w = env.do(t, http.MethodDelete, "/api/actors/"+actorID, env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete actor that is associated with movies")

	w = env.do(t, http.MethodDelete, "/api/genres/"+genreID, env.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete genre that is associated with movies")

	// entities are untouched
	w = env.do(t, http.MethodGet, "/api/directors/"+directorID, env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, movieIDs(t, decode(t, w)), 1)
}

func TestMovieDeleteClearsBackReferences(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Greta Gerwig")
	actor1 := env.createActor(t, "Saoirse Ronan")
	actor2 := env.createActor(t, "Florence Pugh")
	genreID := env.createGenre(t, "Drama")
	movieID := env.createMovie(t, "Little Women", directorID, []string{actor1, actor2}, []string{genreID})

	w := env.do(t, http.MethodDelete, "/api/movies/"+movieID, env.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Movie removed")

	for _, path := range []string{
		"/api/directors/" + directorID,
		"/api/actors/" + actor1,
		"/api/actors/" + actor2,
		"/api/genres/" + genreID,
	} {
		w := env.do(t, http.MethodGet, path, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, movieIDs(t, decode(t, w)), path)
	}

	// director is deletable once unreferenced
	w = env.do(t, http.MethodDelete, "/api/directors/"+directorID, env.adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/movies/"+movieID, env.userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenreNameUniqueness(t *testing.T) {
	env := newTestEnv(t)

	env.createGenre(t, "Action")

	w := env.do(t, http.MethodPost, "/api/genres", env.adminToken,
		map[string]interface{}{"name": "Action"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Genre already exists")

	// trimmed comparison
	w = env.do(t, http.MethodPost, "/api/genres", env.adminToken,
		map[string]interface{}{"name": "  Action  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	thrillerID := env.createGenre(t, "Thriller")

	w = env.do(t, http.MethodPut, "/api/genres/"+thrillerID, env.adminToken,
		map[string]interface{}{"name": "Action"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Genre with that name already exists")

	// renaming to its own name is a no-op, not a conflict
	w = env.do(t, http.MethodPut, "/api/genres/"+thrillerID, env.adminToken,
		map[string]interface{}{"name": "Thriller"})
	assert.Equal(t, http.StatusOK, w.Code)

	// both genres unchanged after the rejected rename
	w = env.do(t, http.MethodGet, "/api/genres/"+thrillerID, env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Thriller", decode(t, w)["name"])

	// the unique index holds even when the handler pre-check is bypassed,
	// as it is when two creates race
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := env.client.Database(env.dbName).Collection("genres").InsertOne(ctx,
		bson.M{"_id": bson.NewObjectID(), "name": "Action"})
	assert.True(t, mongo.IsDuplicateKeyError(err))
}

func TestMoviePartialUpdate(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Christopher Nolan")
	movieID := env.createMovie(t, "Tenet", directorID, nil, nil)

	w := env.do(t, http.MethodPut, "/api/movies/"+movieID, env.adminToken,
		map[string]interface{}{"plot": "new plot"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "new plot", updated["plot"])
	assert.Equal(t, "Tenet", updated["title"])
	assert.Equal(t, float64(120), updated["runtime"])

	// an explicit zero is applied, unlike a field left out of the patch
	w = env.do(t, http.MethodPut, "/api/movies/"+movieID, env.adminToken,
		map[string]interface{}{"runtime": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(0), decode(t, w)["runtime"])
}

func TestMovieUpdateReconcilesDirectorChange(t *testing.T) {
	env := newTestEnv(t)

	oldDirector := env.createDirector(t, "Old Director")
	newDirector := env.createDirector(t, "New Director")
	movieID := env.createMovie(t, "Reassigned", oldDirector, nil, nil)

	w := env.do(t, http.MethodPut, "/api/movies/"+movieID, env.adminToken,
		map[string]interface{}{"director": newDirector})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/directors/"+oldDirector, env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, movieIDs(t, decode(t, w)))

	w = env.do(t, http.MethodGet, "/api/directors/"+newDirector, env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, movieIDs(t, decode(t, w)), movieID)
}

func TestMoviePagination(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Prolific Director")
	for i := 0; i < 12; i++ {
		env.createMovie(t, fmt.Sprintf("Movie %02d", i), directorID, nil, nil)
	}

	w := env.do(t, http.MethodGet, "/api/movies", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode(t, w)
	assert.Equal(t, float64(1), page["page"])
	assert.Equal(t, float64(2), page["pages"])
	assert.Equal(t, float64(12), page["total"])
	assert.Len(t, page["movies"].([]interface{}), 10)

	w = env.do(t, http.MethodGet, "/api/movies?page=2", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page = decode(t, w)
	assert.Equal(t, float64(2), page["page"])
	assert.Len(t, page["movies"].([]interface{}), 2)
}

func TestEntityNotFoundResponses(t *testing.T) {
	env := newTestEnv(t)

	missing := bson.NewObjectID().Hex()
	cases := []struct {
		path    string
		message string
	}{
		{"/api/movies/" + missing, "Movie not found"},
		{"/api/directors/" + missing, "Director not found"},
		{"/api/directors/" + missing + "/movies", "Director not found"},
		{"/api/actors/" + missing, "Actor not found"},
		{"/api/actors/" + missing + "/movies", "Actor not found"},
		{"/api/genres/" + missing, "Genre not found"},
		{"/api/genres/" + missing + "/movies", "Genre not found"},
		{"/api/movies/not-a-hex-id", "Movie not found"},
	}
	for _, tc := range cases {
		w := env.do(t, http.MethodGet, tc.path, env.userToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.Contains(t, w.Body.String(), tc.message, tc.path)
	}
}

func TestGetMovieByIDResolvesDetails(t *testing.T) {
	env := newTestEnv(t)

	directorID := env.createDirector(t, "Christopher Nolan")
	actorID := env.createActor(t, "Cillian Murphy")
	genreID := env.createGenre(t, "Drama")
	movieID := env.createMovie(t, "Oppenheimer", directorID, []string{actorID}, []string{genreID})

	w := env.do(t, http.MethodGet, "/api/movies/"+movieID, env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decode(t, w)

	director := detail["director"].(map[string]interface{})
	assert.Equal(t, "Christopher Nolan", director["name"])
	assert.Equal(t, float64(1970), director["birthYear"])

	actors := detail["actors"].([]interface{})
	require.Len(t, actors, 1)
	assert.Equal(t, "Cillian Murphy", actors[0].(map[string]interface{})["name"])

	genres := detail["genres"].([]interface{})
	require.Len(t, genres, 1)
	assert.Equal(t, "Drama", genres[0].(map[string]interface{})["name"])

	assert.Equal(t, "no-image.jpg", detail["poster"])
}

// newRedisTestEnv wires the routes against a real cache. Skipped when no
// Redis instance is provided.
func newRedisTestEnv(t *testing.T) *testEnv {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set; skipping cache-backed tests")
	}
	rdb := database.ConnectRedis(addr)
	if rdb == nil {
		t.Skipf("redis at %s unreachable; skipping cache-backed tests", addr)
	}
	movieCache := cache.New(rdb, time.Minute)

	env := newTestEnvWithCache(t, movieCache)

	// pages left behind by earlier runs share the key space
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	movieCache.Invalidate(ctx)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		movieCache.Invalidate(ctx)
	})
	return env
}

func TestRenameRefreshesCachedMoviePages(t *testing.T) {
	env := newRedisTestEnv(t)

	directorID := env.createDirector(t, "Old Director")
	genreID := env.createGenre(t, "Old Genre")
	env.createMovie(t, "Cached", directorID, nil, []string{genreID})

	// warm the cache
	w := env.do(t, http.MethodGet, "/api/movies", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Old Director")

	w = env.do(t, http.MethodPut, "/api/directors/"+directorID, env.adminToken,
		map[string]interface{}{"name": "New Director"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/movies", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "New Director")
	assert.NotContains(t, w.Body.String(), "Old Director")

	w = env.do(t, http.MethodPut, "/api/genres/"+genreID, env.adminToken,
		map[string]interface{}{"name": "New Genre"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/movies", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "New Genre")
	assert.NotContains(t, w.Body.String(), "Old Genre")
}

func TestEntityListsSortedByName(t *testing.T) {
	env := newTestEnv(t)

	env.createDirector(t, "Zed Last")
	env.createDirector(t, "Alice First")
	env.createDirector(t, "Mike Middle")

	w := env.do(t, http.MethodGet, "/api/directors", env.userToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	directors := decodeList(t, w)
	require.Len(t, directors, 3)
	assert.Equal(t, "Alice First", directors[0]["name"])
	assert.Equal(t, "Mike Middle", directors[1]["name"])
	assert.Equal(t, "Zed Last", directors[2]["name"])
}
