package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/forumkit/forumkit/config"
	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web"
	"github.com/forumkit/forumkit/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting server")
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			if err := database.CloseDB(); err != nil {
				logger.Warning("close database err:", err)
			}
			logger.CloseLogger()
			return
		}
	}
}

func resetPassword(username string, password string) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	userService := service.UserService{}
	if err := userService.ResetPassword(username, password); err != nil {
		fmt.Println("reset password failed:", err)
	} else {
		fmt.Println("reset password success")
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found")
	}

	var rootCmd = &cobra.Command{
		Use:   config.GetName(),
		Short: "A threaded discussion forum server",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the forum web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var username string
	var password string
	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Modify forum settings from the command line",
		Run: func(cmd *cobra.Command, args []string) {
			if username != "" && password != "" {
				resetPassword(username, password)
				return
			}
			cmd.Help()
		},
	}
	settingCmd.Flags().StringVar(&username, "username", "", "account to modify")
	settingCmd.Flags().StringVar(&password, "password", "", "new password for the account")

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, settingCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
