package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"glossify/internal/config"
	"glossify/internal/database"
	"glossify/internal/logger"
	"glossify/internal/repository"
	"glossify/internal/security"
	"glossify/internal/service"
	"glossify/internal/wordlist"
	"glossify/migrations"
)

func main() {
	// Define subcommands
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	backupCmd := flag.NewFlagSet("backup", flag.ExitOnError)
	restoreCmd := flag.NewFlagSet("restore", flag.ExitOnError)
	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)

	// Import flags
	importUser := importCmd.String("user", security.LocalUserID, "User ID")
	importList := importCmd.String("list", "", "List name (required)")
	importFile := importCmd.String("file", "", "Input .txt, .csv or .xlsx file (required)")

	// Export flags
	exportUser := exportCmd.String("user", security.LocalUserID, "User ID")
	exportList := exportCmd.String("list", "", "List name (required)")
	exportOutput := exportCmd.String("output", "", "Output file path (default: stdout)")

	// Backup flags
	backupUser := backupCmd.String("user", security.LocalUserID, "User ID")
	backupOutput := backupCmd.String("output", "", "Output file path (default: glossify_backup_YYYYMMDD_HHMMSS.json)")

	// Restore flags
	restoreUser := restoreCmd.String("user", "", "User ID (default: the user in the backup)")
	restoreInput := restoreCmd.String("input", "", "Input file path (required)")
	restoreClear := restoreCmd.Bool("clear", false, "Delete the user's stored lists before restoring (WARNING: destructive)")

	// Token flags
	tokenUser := tokenCmd.String("user", "", "User ID (required)")
	tokenTTL := tokenCmd.Duration("ttl", 30*24*time.Hour, "Token lifetime")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	if os.Args[1] == "token" {
		tokenCmd.Parse(os.Args[2:])
		requireFlag(tokenCmd, "user", *tokenUser)
		handleToken(cfg, *tokenUser, *tokenTTL)
		return
	}

	zlog, err := logger.New("warn", cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(database.MigrationSource(cfg.MigrationsPath, migrations.FS), zlog); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	listRepo := repository.NewWordListRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	listService := service.NewListService(listRepo)

	switch os.Args[1] {
	case "import":
		importCmd.Parse(os.Args[2:])
		requireFlag(importCmd, "list", *importList)
		requireFlag(importCmd, "file", *importFile)
		handleImport(listService, *importUser, *importList, *importFile)

	case "export":
		exportCmd.Parse(os.Args[2:])
		requireFlag(exportCmd, "list", *exportList)
		handleExport(listService, *exportUser, *exportList, *exportOutput)

	case "backup":
		backupCmd.Parse(os.Args[2:])
		handleBackup(service.NewBackupService(listRepo, settingsRepo, zlog), *backupUser, *backupOutput)

	case "restore":
		restoreCmd.Parse(os.Args[2:])
		requireFlag(restoreCmd, "input", *restoreInput)
		handleRestore(service.NewBackupService(listRepo, settingsRepo, zlog), listRepo, *restoreUser, *restoreInput, *restoreClear, zlog)

	default:
		printUsage()
		os.Exit(1)
	}
}

func requireFlag(fs *flag.FlagSet, name, value string) {
	if value == "" {
		fmt.Printf("Error: -%s flag is required\n", name)
		fs.PrintDefaults()
		os.Exit(1)
	}
}

func handleImport(listService *service.ListService, userID, name, path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", path)
	}

	result, err := listService.Import(userID, name, path)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Printf("Imported %d pairs into %q for user %s (%d rows skipped)", len(result.Pairs), name, userID, result.Skipped)
}

func handleExport(listService *service.ListService, userID, name, outputPath string) {
	list, err := listService.Get(userID, name)
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := createOutput(outputPath)
		if err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := io.WriteString(w, wordlist.Serialize(list.Pairs)+"\n"); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	if outputPath != "" {
		log.Printf("Exported %d pairs to %s", len(list.Pairs), outputPath)
	}
}

func handleBackup(backupService *service.BackupService, userID, outputPath string) {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("glossify_backup_%s.json", timestamp)
	}

	f, err := createOutput(outputPath)
	if err != nil {
		log.Fatalf("Backup failed: %v", err)
	}
	defer f.Close()

	log.Printf("Backing up user %s to: %s", userID, outputPath)
	if err := backupService.ExportToWriter(userID, f); err != nil {
		log.Fatalf("Backup failed: %v", err)
	}
	log.Println("Backup complete!")
}

func handleRestore(backupService *service.BackupService, listRepo *repository.WordListRepository, userID, inputPath string, clearData bool, zlog *zap.Logger) {
	f, err := os.Open(inputPath)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	defer f.Close()

	if clearData {
		if userID == "" {
			log.Fatal("-clear needs -user")
		}
		fmt.Printf("WARNING: This will delete every stored list of user %s. Type 'yes' to confirm: ", userID)
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Println("Restore cancelled")
			return
		}
		if err := clearLists(listRepo, userID, zlog); err != nil {
			log.Fatalf("Failed to clear lists: %v", err)
		}
	}

	log.Printf("Restoring from: %s", inputPath)
	backup, err := backupService.ImportFromReader(userID, f)
	if err != nil {
		log.Fatalf("Restore failed: %v", err)
	}
	log.Printf("Restore complete! %d lists, %d settings", len(backup.Lists), len(backup.Settings))
}

func clearLists(listRepo *repository.WordListRepository, userID string, zlog *zap.Logger) error {
	names, err := listRepo.ListNames(userID)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := listRepo.DeleteWordList(userID, name); err != nil {
			return fmt.Errorf("failed to delete list %s: %w", name, err)
		}
		zlog.Info("Deleted list", zap.String("user", userID), zap.String("list", name))
	}
	return nil
}

func handleToken(cfg *config.Config, userID string, ttl time.Duration) {
	verifier := security.NewTokenVerifier(cfg.JWTSecret, cfg.TokenIssuer)
	token, err := verifier.Issue(userID, ttl)
	if err != nil {
		log.Fatalf("Failed to issue token: %v (is JWT_SECRET set?)", err)
	}
	fmt.Println(token)
}

func createOutput(path string) (*os.File, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return os.Create(path)
}

func printUsage() {
	fmt.Println("Glossify word list tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  wordlists import  -list NAME -file PATH [-user U]   Import a .txt, .csv or .xlsx file")
	fmt.Println("  wordlists export  -list NAME [-output PATH] [-user U] Print a list in svenska;target format")
	fmt.Println("  wordlists backup  [-output PATH] [-user U]           Write the user's lists and settings as JSON")
	fmt.Println("  wordlists restore -input PATH [-user U] [-clear]     Restore a JSON backup")
	fmt.Println("  wordlists token   -user U [-ttl 720h]                Issue a bearer token for the API")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  wordlists import -list week42 -file week42.xlsx")
	fmt.Println("  wordlists export -list week42 -output week42.txt")
	fmt.Println("  wordlists restore -input glossify_backup.json -user alice")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DB_TYPE          Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./glossify.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  JWT_SECRET       Secret used to sign tokens")
}
