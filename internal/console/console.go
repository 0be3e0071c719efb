// Package console реализует построчный интерфейс к хранилищу состояния.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/letsssgooo/wolfpedia/internal/app"
	"github.com/letsssgooo/wolfpedia/internal/catalog"
	"github.com/letsssgooo/wolfpedia/internal/profile"
	"github.com/letsssgooo/wolfpedia/internal/quiz"
)

type handler func(ctx context.Context, args []string) error

// Console читает команды и печатает ответы.
type Console struct {
	store    *app.Store
	out      io.Writer
	log      *slog.Logger
	commands map[string]handler
}

// New создает консоль над store, печатающую в out.
func New(store *app.Store, out io.Writer, log *slog.Logger) *Console {
	c := &Console{
		store: store,
		out:   out,
		log:   log,
	}

	c.commands = map[string]handler{
		"species":      c.species,
		"show":         c.show,
		"fav":          c.fav,
		"favs":         c.favs,
		"gallery":      c.gallery,
		"quiz":         c.quiz,
		"answer":       c.answer,
		"next":         c.next,
		"reset":        c.reset,
		"results":      c.results,
		"export":       c.export,
		"achievements": c.achievements,
		"avatars":      c.avatars,
		"avatar":       c.avatar,
		"name":         c.name,
		"stats":        c.stats,
		"share":        c.share,
		"help":         c.help,
	}

	return c
}

// Run обрабатывает команды из in, пока не встретит quit или конец ввода.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	c.println(msgWelcome)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "> ")

		if !scanner.Scan() {
			break
		}

		if !c.Execute(ctx, scanner.Text()) {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Execute выполняет одну команду. Возвращает false после quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	name := strings.ToLower(fields[0])
	if name == "quit" || name == "exit" {
		c.println(msgBye)
		return false
	}

	cmd, ok := c.commands[name]
	if !ok {
		c.println(msgUnknownCommand)
		return true
	}

	if err := cmd(ctx, fields[1:]); err != nil {
		c.log.Debug("command failed", "command", name, "err", err)
		c.println(userMessage(err))
	}

	return true
}

// userMessage переводит ошибку в сообщение для пользователя.
func userMessage(err error) string {
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		return msgNoQuestions
	case errors.Is(err, quiz.ErrQuizCompleted):
		return msgQuizCompleted
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return msgAlreadyAnswered
	case errors.Is(err, quiz.ErrNotAnswered):
		return msgNotAnswered
	case errors.Is(err, quiz.ErrQuizNotCompleted):
		return msgQuizNotCompleted
	case errors.Is(err, quiz.ErrQuestionMismatch):
		return msgNotAnswered
	case errors.Is(err, quiz.ErrInvalidChoice):
		return "Invalid answer: use a letter or a number of an option."
	case errors.Is(err, profile.ErrValidation):
		return "Invalid name: use 2 to 32 letters, digits, spaces, '-' or '''."
	case errors.Is(err, profile.ErrUnknownAvatar):
		return "Avatar not found."
	case errors.Is(err, errUsage):
		return msgUsage + strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
	default:
		return "Error: " + err.Error()
	}
}

var errUsage = errors.New("usage")

func usage(format string) error {
	return fmt.Errorf("%w: %s", errUsage, format)
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) species(_ context.Context, args []string) error {
	filter := catalog.SpeciesFilter{}
	if len(args) > 0 {
		if region, ok := catalog.ParseRegion(args[0]); ok {
			filter.Region = region
			args = args[1:]
		}
	}
	filter.Query = strings.Join(args, " ")

	found := c.store.Catalog().Filter(filter)
	if len(found) == 0 {
		c.println(msgNothingFound)
		return nil
	}

	for _, s := range found {
		c.println(c.speciesLine(s))
	}

	return nil
}

func (c *Console) show(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("show <id>")
	}

	s, ok := c.store.Catalog().SpeciesByID(args[0])
	if !ok {
		c.println(msgUnknownSpecies)
		return nil
	}

	c.printSpecies(s, c.store.Favorites().IsFavorite(s.ID))

	return nil
}

func (c *Console) fav(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("fav <id>")
	}

	if _, ok := c.store.Catalog().SpeciesByID(args[0]); !ok {
		c.println(msgUnknownSpecies)
		return nil
	}

	if c.store.ToggleFavorite(ctx, args[0]) {
		c.println(msgFavoriteAdded)
	} else {
		c.println(msgFavoriteRemoved)
	}

	return nil
}

func (c *Console) favs(_ context.Context, _ []string) error {
	favorites := c.store.Favorites().Species(c.store.Catalog())
	if len(favorites) == 0 {
		c.println(msgNoFavorites)
		return nil
	}

	for _, s := range favorites {
		c.println(c.speciesLine(s))
	}

	return nil
}

func (c *Console) gallery(_ context.Context, args []string) error {
	cat := c.store.Catalog()

	if len(args) == 0 {
		for _, category := range cat.GalleryCategories() {
			c.println(category)
		}

		return nil
	}

	items := cat.GalleryByCategory(strings.Join(args, " "))
	if len(items) == 0 {
		c.println(msgNothingFound)
		return nil
	}

	for _, item := range items {
		c.printf("%s\n  %s\n", bold.Sprint(item.Title), item.Fact)
	}

	return nil
}

func (c *Console) quiz(_ context.Context, _ []string) error {
	c.printSnapshot(c.store.Quiz().Snapshot())
	return nil
}

func (c *Console) answer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("answer <letter|number>")
	}

	var (
		res quiz.Result
		err error
	)
	if n, convErr := strconv.Atoi(args[0]); convErr == nil {
		snap := c.store.Quiz().Snapshot()
		if snap.Question != nil {
			res, err = c.store.SubmitAnswer(ctx, snap.Question.ID, n-1)
		} else {
			res, err = c.store.Quiz().SubmitAnswer(ctx, snap.QuestionIdx, n-1)
		}
	} else {
		res, err = c.store.SubmitAnswerLetter(ctx, args[0])
	}
	if err != nil {
		return err
	}

	c.printResult(res)

	return nil
}

func (c *Console) next(ctx context.Context, _ []string) error {
	state, err := c.store.AdvanceQuiz()
	if err != nil {
		return err
	}

	if state == quiz.StateCompleted {
		return c.results(ctx, nil)
	}

	c.printSnapshot(c.store.Quiz().Snapshot())

	return nil
}

func (c *Console) reset(_ context.Context, _ []string) error {
	c.store.ResetQuiz()
	c.println(msgQuizReset)
	c.printSnapshot(c.store.Quiz().Snapshot())

	return nil
}

func (c *Console) results(_ context.Context, _ []string) error {
	results, err := c.store.Quiz().Results()
	if err != nil {
		return err
	}

	c.printf("Quiz completed: %d of %d correct, score %s, time %s\n",
		results.CorrectCount, results.Total, bold.Sprint(results.Score), results.TotalTime.Round(time.Second))
	if len(results.CorrectIDs) > 0 {
		c.printf("Correct: %s\n", strings.Join(results.CorrectIDs, ", "))
	}

	return nil
}

func (c *Console) export(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("export <file>")
	}

	data, err := c.store.Quiz().ExportCSV()
	if err != nil {
		return err
	}

	if err = os.WriteFile(args[0], data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", args[0], err)
	}

	c.println(msgExported + args[0])

	return nil
}

func (c *Console) achievements(_ context.Context, _ []string) error {
	ach := c.store.Achievements()

	for _, a := range ach.All() {
		mark := locked.Sprint("locked")
		if a.IsUnlocked {
			mark = unlocked.Sprint("unlocked")
		}

		c.printf("%s %s (%d points) %s\n  %s\n", a.Icon, bold.Sprint(a.Title), a.RequiredScore, mark, a.Description)
	}

	c.printf("Progress: %s\n", percent(ach.Progress()))

	return nil
}

func (c *Console) avatars(_ context.Context, _ []string) error {
	p := c.store.Profile()
	score := c.store.Quiz().Score()
	selected := p.Profile().SelectedAvatar

	for _, a := range p.UnlockedAvatars(score) {
		mark := ""
		if a.ID == selected {
			mark = unlocked.Sprint(" (selected)")
		}

		c.printf("%s %s %s [%s]%s\n", a.Icon, a.ID, a.Name, rarityColor(a.Rarity).Sprint(a.Rarity), mark)
	}

	for _, a := range p.LockedAvatars(score) {
		c.printf("%s %s %s [%s] %s\n", a.Icon, a.ID, a.Name, rarityColor(a.Rarity).Sprint(a.Rarity),
			locked.Sprintf("needs %d points", a.UnlockScore))
	}

	c.printf("Unlocked: %s\n", percent(p.AvatarProgress(score)))

	return nil
}

func (c *Console) avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("avatar <id>")
	}

	if err := c.store.SelectAvatar(ctx, args[0]); err != nil {
		return err
	}

	c.println(msgAvatarSelected)

	return nil
}

func (c *Console) name(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("name <new name>")
	}

	if err := c.store.Rename(ctx, strings.Join(args, " ")); err != nil {
		return err
	}

	c.println(msgNameChanged)

	return nil
}

func (c *Console) stats(_ context.Context, _ []string) error {
	d := c.store.Dashboard()

	c.printf("%s %s\n", d.Avatar.Icon, bold.Sprint(d.UserName))
	c.printf("Score: %d\n", d.Score)
	c.printf("Achievements: %d of %d (%s)\n", d.UnlockedCount, d.AchievementsTotal, percent(d.AchievementProgress))
	c.printf("Favorites: %d\n", d.FavoritesCount)
	c.printf("Species: %d\n", d.SpeciesCount)

	if d.NextAchievement != nil {
		c.printf("Next achievement: %s at %d points\n", d.NextAchievement.Title, d.NextAchievement.RequiredScore)
	}

	return nil
}

func (c *Console) share(_ context.Context, _ []string) error {
	c.println(c.store.ShareText())
	return nil
}

func (c *Console) help(_ context.Context, _ []string) error {
	c.println(msgHelp)
	return nil
}
