package cli

import (
	"bytes"
	"testing"

	"sozluk/internal/db/dbtest"
	"sozluk/internal/models"
	"sozluk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// run executes sozlukctl against gdb and returns its output.
func run(t *testing.T, gdb *gorm.DB, args ...string) (string, error) {
	t.Helper()
	var dsns []string
	cmd := NewRootCommand(func(dsn string) (*gorm.DB, error) {
		dsns = append(dsns, dsn)
		return gdb, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--database", "test.db"}, args...))
	err := cmd.Execute()
	if err == nil {
		assert.Equal(t, []string{"test.db"}, dsns)
	}
	return out.String(), err
}

func TestMigrateSeedsCategories(t *testing.T) {
	gdb := dbtest.Open(t)

	out, err := run(t, gdb, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated")

	var count int64
	require.NoError(t, gdb.Model(&models.Category{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	var gundem models.Category
	require.NoError(t, gdb.Where("slug = ?", "gundem").First(&gundem).Error)
	assert.Equal(t, "gündem", gundem.Name)
}

func TestCreateAuthor(t *testing.T) {
	gdb := dbtest.Open(t)

	out, err := run(t, gdb, "create-author", "Çaylak Yazar", "--password", "parola123", "--novice")
	require.NoError(t, err)
	assert.Contains(t, out, "created author Çaylak Yazar")

	var author models.Author
	require.NoError(t, gdb.Where("slug = ?", "caylak-yazar").First(&author).Error)
	assert.True(t, author.IsActive)
	assert.True(t, author.IsNovice)
	assert.True(t, utils.CheckPasswordHash("parola123", author.Password))

	_, err = run(t, gdb, "create-author", "kisa", "--password", "123")
	assert.ErrorContains(t, err, "at least 8")

	_, err = run(t, gdb, "create-author", "Çaylak Yazar", "--password", "parola123")
	assert.Error(t, err, "usernames are unique")
}

func TestBlock(t *testing.T) {
	gdb := dbtest.Open(t)
	for _, name := range []string{"ali", "veli"} {
		_, err := run(t, gdb, "create-author", name, "--password", "parola123")
		require.NoError(t, err)
	}
	blocks := func() int64 {
		var n int64
		require.NoError(t, gdb.Model(&models.AuthorBlock{}).Count(&n).Error)
		return n
	}

	out, err := run(t, gdb, "block", "ali", "veli")
	require.NoError(t, err)
	assert.Equal(t, "ali blocked veli\n", out)
	_, err = run(t, gdb, "block", "ali", "veli")
	require.NoError(t, err)
	assert.Equal(t, int64(1), blocks())

	out, err = run(t, gdb, "block", "ali", "veli", "--undo")
	require.NoError(t, err)
	assert.Equal(t, "ali unblocked veli\n", out)
	assert.Equal(t, int64(0), blocks())

	_, err = run(t, gdb, "block", "ali", "ali")
	assert.Error(t, err)
	_, err = run(t, gdb, "block", "ali", "kimse")
	assert.ErrorContains(t, err, "kimse")
}

func TestRequiresDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cmd := NewRootCommand(func(string) (*gorm.DB, error) {
		t.Fatal("opener should not be called")
		return nil, nil
	})
	cmd.SetArgs([]string{"migrate"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "no database")
}
