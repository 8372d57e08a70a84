package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MindDevsDavid/DragonScan/config"
	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/web"
	"github.com/MindDevsDavid/DragonScan/web/global"
	"github.com/MindDevsDavid/DragonScan/web/service"

	_ "github.com/joho/godotenv/autoload"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
	"github.com/xlzd/gotp"
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
	global.SetWebServer(server)
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			global.SetWebServer(server)
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			_ = server.Stop()
			_ = database.CloseDB()
			return
		}
	}
}

func resetSetting() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}
	err = settingService.ResetSettings()
	if err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func updateProfile(username, password, role, totpSeed string, setSeed bool) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	profileService := service.ProfileService{}

	if password != "" {
		err := profileService.UpdatePassword(username, password)
		if err != nil {
			fmt.Println("set password failed:", err)
		} else {
			fmt.Println("set password success")
		}
	}
	if role != "" {
		err := profileService.SetRole(username, model.Role(role))
		if err != nil {
			fmt.Println("set role failed:", err)
		} else {
			fmt.Printf("set role %v success\n", role)
		}
	}
	if setSeed {
		if totpSeed == "" {
			totpSeed = gotp.RandomSecret(32)
		}
		err := profileService.SetLoginSecret(username, totpSeed)
		if err != nil {
			fmt.Println("set totp seed failed:", err)
		} else {
			fmt.Println("set totp seed success:", totpSeed)
		}
	}
}

func updateTwoFactor(enable bool) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}

	if !enable {
		if err := settingService.SetTwoFactorEnable(false); err != nil {
			fmt.Println("disable two factor failed:", err)
		} else {
			fmt.Println("two factor disabled")
		}
		return
	}

	token, err := settingService.GetTwoFactorToken()
	if err == nil && token == "" {
		token = gotp.RandomSecret(32)
		err = settingService.SetTwoFactorToken(token)
	}
	if err == nil {
		err = settingService.SetTwoFactorEnable(true)
	}
	if err != nil {
		fmt.Println("enable two factor failed:", err)
		return
	}
	fmt.Println("two factor enabled, site token:", token)
}

func main() {
	var rootCmd = &cobra.Command{
		Use: "dragonscan",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Manage settings and profiles",
	}

	var resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset all settings to defaults",
		Run: func(cmd *cobra.Command, args []string) {
			resetSetting()
		},
	}

	var updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Update a profile's password, role or TOTP seed",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			totpSeed, _ := cmd.Flags().GetString("totp-seed")
			if username == "" {
				fmt.Println("username is required")
				return
			}
			updateProfile(username, password, role, totpSeed, cmd.Flags().Changed("totp-seed"))
		},
	}

	updateCmd.Flags().StringP("username", "u", "", "profile username")
	updateCmd.Flags().StringP("password", "p", "", "new password")
	updateCmd.Flags().StringP("role", "r", "", "new role (admin or lector)")
	updateCmd.Flags().StringP("totp-seed", "t", "", "personal TOTP seed, generated when passed empty")

	var twoFactorCmd = &cobra.Command{
		Use:   "twofactor",
		Short: "Enable or disable two-factor admin login",
		Run: func(cmd *cobra.Command, args []string) {
			enable, _ := cmd.Flags().GetBool("enable")
			disable, _ := cmd.Flags().GetBool("disable")
			if enable == disable {
				fmt.Println("pass exactly one of --enable or --disable")
				return
			}
			updateTwoFactor(enable)
		},
	}

	twoFactorCmd.Flags().BoolP("enable", "e", false, "enable two-factor login")
	twoFactorCmd.Flags().BoolP("disable", "d", false, "disable two-factor login")

	settingCmd.AddCommand(resetCmd, updateCmd, twoFactorCmd)
	rootCmd.AddCommand(runCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("execute failed:", err)
		os.Exit(1)
	}
}
