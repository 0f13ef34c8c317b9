package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/breezeware/dynamodocs/internal/api"
	"github.com/breezeware/dynamodocs/internal/cache"
	"github.com/breezeware/dynamodocs/internal/config"
	"github.com/breezeware/dynamodocs/internal/coordinator"
	"github.com/breezeware/dynamodocs/internal/doctree"
	"github.com/breezeware/dynamodocs/internal/history"
	"github.com/breezeware/dynamodocs/internal/model"
	"github.com/breezeware/dynamodocs/internal/schedule"
	"github.com/breezeware/dynamodocs/internal/session"
	"github.com/breezeware/dynamodocs/internal/shell"
	appsignal "github.com/breezeware/dynamodocs/internal/signal"
	"github.com/breezeware/dynamodocs/internal/view"
)

// app bundles the wired core the subcommands run against.
type app struct {
	cfg     *config.Config
	api     *api.Client
	bus     *appsignal.Bus
	store   *cache.Store
	router  *shell.Router
	banner  *coordinator.Banner
	actions *coordinator.Coordinator
	history *history.Browser
	who     *session.Session
}

func buildApp(configPath string) (*app, error) {
	if configPath == "" {
		return nil, fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

	who := &session.Session{Token: cfg.Token}
	if cfg.Token != "" {
		if parsed, err := session.FromToken(cfg.Token); err == nil {
			who = parsed
		}
	}
	if who.Expired(time.Now()) {
		return nil, fmt.Errorf("session token expired, sign in again")
	}

	bus := appsignal.NewBus()
	store := cache.New(bus, cfg.Cache.Size, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	client := api.New(cfg.ServiceURL, cfg.Token)
	router := shell.NewRouter()
	banner := coordinator.NewBanner()
	actions := coordinator.New(client, bus, router, banner,
		coordinator.WithDelays(200*time.Millisecond, time.Duration(cfg.Editor.AutosaveMillis)*time.Millisecond))
	return &app{
		cfg:     cfg,
		api:     client,
		bus:     bus,
		store:   store,
		router:  router,
		banner:  banner,
		actions: actions,
		history: history.NewBrowser(client),
		who:     who,
	}, nil
}

func (a *app) close() {
	a.actions.Close()
	a.store.Close()
}

// report prints the banner outcome the way the UI would show it.
func (a *app) report() {
	message, isError, open := a.banner.Current()
	if !open {
		return
	}
	if isError {
		fmt.Fprintln(os.Stderr, message)
		return
	}
	fmt.Println(message)
}

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "dynamodocs",
		Short: "dynamo docs client",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	rootCmd.AddCommand(
		treeCmd(&configPath),
		collectionsCmd(&configPath),
		listCmd(&configPath),
		showCmd(&configPath),
		createCmd(&configPath),
		editCmd(&configPath),
		saveCmd(&configPath),
		publishCmd(&configPath),
		archiveCmd(&configPath),
		deleteCmd(&configPath),
		uploadCmd(&configPath),
		downloadCmd(&configPath),
		historyCmd(&configPath),
		watchCmd(&configPath),
	)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("command failed", zap.Error(err))
	}
}

func treeCmd(configPath *string) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "show the collection and document tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			tree := view.NewTreeView(cmd.Context(), a.api, a.bus, a.store)
			defer tree.Close()
			tree.SetSearch(search)
			if err := tree.Refresh(cmd.Context()); err != nil {
				return err
			}
			for _, node := range doctree.Flatten(tree.Nodes()) {
				fmt.Printf("%s%s %s\n", strings.Repeat("  ", node.Depth), node.StatusIcon(), node.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter collections and documents")
	return cmd
}

func collectionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "manage collections",
	}

	show := &cobra.Command{
		Use:   "show <collection-id>",
		Short: "show one collection's tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			colView := view.NewCollectionView(cmd.Context(), a.api, a.bus, args[0])
			defer colView.Close()
			if err := colView.Refresh(cmd.Context()); err != nil {
				return err
			}
			a.router.Navigate(shell.CollectionPath(args[0]))
			for _, node := range doctree.Flatten(colView.Nodes()) {
				fmt.Printf("%s%s %s\n", strings.Repeat("  ", node.Depth), node.StatusIcon(), node.Title)
			}
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "list collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			refs, err := a.api.CollectionRefs(cmd.Context())
			if err != nil {
				return err
			}
			for _, ref := range refs {
				fmt.Printf("%s\t%s\n", ref.UniqueID, ref.Name)
			}
			return nil
		},
	}

	var name, description, permission string
	create := &cobra.Command{
		Use:   "create",
		Short: "create a collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			created, err := a.actions.CreateCollection(cmd.Context(), api.CollectionInput{
				Name:        name,
				Description: description,
				Permission:  model.Permission(permission),
			})
			a.report()
			if err != nil {
				return err
			}
			fmt.Println(created.UniqueID)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "collection name")
	create.Flags().StringVar(&description, "description", "", "collection description")
	create.Flags().StringVar(&permission, "permission", string(model.PermissionReadWrite), "read_write|read|no_access")

	edit := &cobra.Command{
		Use:   "edit <collection-id>",
		Short: "update a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			err = a.actions.EditCollection(cmd.Context(), api.CollectionInput{
				UniqueID:    args[0],
				Name:        name,
				Description: description,
				Permission:  model.Permission(permission),
			})
			a.report()
			return err
		},
	}
	edit.Flags().StringVar(&name, "name", "", "collection name")
	edit.Flags().StringVar(&description, "description", "", "collection description")
	edit.Flags().StringVar(&permission, "permission", string(model.PermissionReadWrite), "read_write|read|no_access")

	del := &cobra.Command{
		Use:   "delete <collection-id>",
		Short: "delete a collection and its documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			err = a.actions.DeleteCollection(cmd.Context(), args[0])
			a.report()
			return err
		},
	}

	cmd.AddCommand(show, list, create, edit, del)
	return cmd
}

func listCmd(configPath *string) *cobra.Command {
	var status, search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list documents by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := model.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			list := view.NewListView(cmd.Context(), a.api, a.bus, parsed)
			defer list.Close()
			list.SetSearch(search)
			if err := list.Refresh(cmd.Context()); err != nil {
				return err
			}
			for _, item := range list.Items() {
				fmt.Printf("%s\t%s\t%s\n", item.Document.UniqueID, item.Document.DisplayTitle(), item.Byline)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", string(model.StatusPublished), "drafted|published|archived|deleted")
	cmd.Flags().StringVar(&search, "search", "", "filter by title")
	return cmd
}

func showCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document-id>",
		Short: "show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			docView := view.NewDocumentView(cmd.Context(), a.api, a.bus, a.store)
			defer docView.Close()
			doc, err := docView.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.router.Navigate(shell.DocumentPath(doc.UniqueID))
			fmt.Printf("# %s [%s]\n\n%s\n", doc.DisplayTitle(), doc.Status, doc.Content)
			return nil
		},
	}
}

func createCmd(configPath *string) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "create <collection-id>",
		Short: "create an empty draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			created, err := a.actions.CreateDocument(cmd.Context(), args[0], parentID)
			a.report()
			if err != nil {
				return err
			}
			fmt.Println(created.UniqueID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "nest under this document")
	return cmd
}

func editCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <document-id>",
		Short: "open a document for editing, forking published ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			doc, err := a.api.Document(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			target, err := a.actions.EditDocument(cmd.Context(), doc)
			a.report()
			if err != nil {
				return err
			}
			fmt.Println(target.UniqueID)
			return nil
		},
	}
}

func saveCmd(configPath *string) *cobra.Command {
	var title, contentFile string
	cmd := &cobra.Command{
		Use:   "save <document-id>",
		Short: "save a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			doc, err := loadDraft(cmd.Context(), a, args[0], title, contentFile)
			if err != nil {
				return err
			}
			err = a.actions.SaveDraft(cmd.Context(), doc)
			a.report()
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&contentFile, "content", "", "markdown file to read the body from")
	return cmd
}

func publishCmd(configPath *string) *cobra.Command {
	var title, contentFile string
	cmd := &cobra.Command{
		Use:   "publish <document-id>",
		Short: "publish a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			doc, err := loadDraft(cmd.Context(), a, args[0], title, contentFile)
			if err != nil {
				return err
			}
			err = a.actions.PublishDocument(cmd.Context(), doc)
			a.report()
			return err
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&contentFile, "content", "", "markdown file to read the body from")
	return cmd
}

// loadDraft fetches the working copy and applies command-line overrides.
func loadDraft(ctx context.Context, a *app, id, title, contentFile string) (*model.Document, error) {
	doc, err := a.api.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	if title != "" {
		doc.Title = title
	}
	if contentFile != "" {
		raw, err := os.ReadFile(contentFile)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		doc.Content = string(raw)
	}
	return doc, nil
}

func archiveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <document-id>",
		Short: "move a document to the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			err = a.actions.ArchiveDocument(cmd.Context(), args[0])
			a.report()
			return err
		},
	}
}

func deleteCmd(configPath *string) *cobra.Command {
	var permanent bool
	cmd := &cobra.Command{
		Use:   "delete <document-id>",
		Short: "move a document to the trash, or remove it for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			if permanent {
				err = a.actions.PermanentDeleteDocument(cmd.Context(), args[0])
			} else {
				err = a.actions.DeleteDocument(cmd.Context(), args[0])
			}
			a.report()
			return err
		},
	}
	cmd.Flags().BoolVar(&permanent, "permanent", false, "remove from the trash permanently")
	return cmd
}

func uploadCmd(configPath *string) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "upload <collection-id> <file.md>",
		Short: "import a markdown file into a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()
			created, err := a.actions.UploadDocument(cmd.Context(), args[0], parentID, filepath.Base(args[1]), file)
			a.report()
			if err != nil {
				return err
			}
			fmt.Println(created.UniqueID)
			return nil
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "nest under this document")
	return cmd
}

func downloadCmd(configPath *string) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "download <document-id>",
		Short: "download a document's markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			path, err := a.actions.DownloadDocument(cmd.Context(), args[0], dir)
			a.report()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "directory to write into")
	return cmd
}

func historyCmd(configPath *string) *cobra.Command {
	var username, date string
	cmd := &cobra.Command{
		Use:   "history <document-id>",
		Short: "show a document's edit history grouped by month",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()
			filter := history.Filter{Username: username}
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date, want YYYY-MM-DD")
				}
				filter.Date = &parsed
			}
			groups, err := a.history.Load(cmd.Context(), args[0], filter)
			if err != nil {
				return err
			}
			for _, group := range groups {
				fmt.Printf("%s (%d)\n", group.Label, group.Count())
				for _, rev := range group.Entries {
					fmt.Printf("  %s\t%s\t%s\n", rev.UniqueID, rev.DisplayTitle(), rev.EditorName())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "filter by editor name")
	cmd.Flags().StringVar(&date, "date", "", "filter by edit date (YYYY-MM-DD)")
	return cmd
}

func watchCmd(configPath *string) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "follow a document listing, refreshing on a schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, ok := model.ParseStatus(status)
			if !ok {
				return fmt.Errorf("unknown status %q", status)
			}
			a, err := buildApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			list := view.NewListView(ctx, a.api, a.bus, parsed)
			defer list.Close()
			if err := list.Refresh(ctx); err != nil {
				return err
			}
			printItems(list.Items())

			scheduler := schedule.NewCronScheduler()
			if err := scheduler.AddJob(view.NewRefreshJob(a.bus), a.cfg.Refresh.Cron); err != nil {
				return err
			}
			scheduler.Start(ctx)
			defer scheduler.Stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				if list.Stale() {
					if err := list.Refresh(ctx); err == nil {
						printItems(list.Items())
					}
				}
				time.Sleep(time.Second)
			}
		},
	}
	cmd.Flags().StringVar(&status, "status", string(model.StatusPublished), "drafted|published|archived|deleted")
	return cmd
}

func printItems(items []view.ListItem) {
	fmt.Printf("---- %s ----\n", time.Now().Format(time.TimeOnly))
	for _, item := range items {
		fmt.Printf("%s\t%s\t%s\n", item.Document.UniqueID, item.Document.DisplayTitle(), item.Byline)
	}
}
