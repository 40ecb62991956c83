// Command simulate fabricates demo subscribers with plausible usage and
// recharge histories and the balances that fall out of them. The rows are
// either POSTed to a running portal API or written as JSON files for a later
// bulk load. The RNG is seeded so a given seed always produces the same
// dataset.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ttportal/internal/auth"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

type seedUser struct {
	PhoneNumber string
	Username    *string
	BonusPlan   int
}

type segment struct {
	avgDataMB   float64
	stdDataMB   float64
	avgRecharge float64
	stdRecharge float64
}

var segments = []segment{
	{avgDataMB: 200, stdDataMB: 50, avgRecharge: 5, stdRecharge: 2},    // light user
	{avgDataMB: 2000, stdDataMB: 500, avgRecharge: 15, stdRecharge: 5}, // heavy user
}

var monetaryExpDays = []struct{ recharge, bonus int }{
	{3, 1}, {6, 3}, {15, 7}, {30, 15}, {75, 32}, {150, 75}, {250, 125}, {300, 150},
}

var dataExpDays = []int{1, 7, 15, 30}

func strptr(s string) *string { return &s }

func roster() []seedUser {
	return []seedUser{
		{PhoneNumber: "90000000", Username: strptr("asma"), BonusPlan: 2},
		{PhoneNumber: "90000001", Username: strptr("behe"), BonusPlan: 3},
		{PhoneNumber: "91234567", BonusPlan: 5},
		{PhoneNumber: "90123456", BonusPlan: 2},
		{PhoneNumber: "90012345", BonusPlan: 10},
		{PhoneNumber: "90001234", BonusPlan: 7},
		{PhoneNumber: "90000123", BonusPlan: 2},
		{PhoneNumber: "90000012", BonusPlan: 4},
		{PhoneNumber: "98765432", BonusPlan: 5},
		{PhoneNumber: "98765430", BonusPlan: 6},
	}
}

type dataset struct {
	Users     []map[string]any
	Usage     []map[string]any
	Recharges []map[string]any
	Balances  []map[string]any
}

func main() {
	baseURL := flag.String("base-url", "", "portal API base URL to POST the rows to")
	secret := flag.String("secret", "dev-secret-change-me", "session secret of the target portal, used to mint the API token")
	outDir := flag.String("out", "", "directory to write JSON files to instead of POSTing")
	seed := flag.Uint64("seed", 1, "RNG seed")
	days := flag.Int("days", 90, "length of the simulated window in days")
	flag.Parse()

	if (*baseURL == "") == (*outDir == "") {
		log.Fatal("exactly one of -base-url or -out is required")
	}

	rng := rand.New(rand.NewSource(*seed))
	end := time.Now().UTC().AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -*days)

	data := simulate(rng, roster(), start, end)

	if *outDir != "" {
		if err := writeFiles(*outDir, data); err != nil {
			log.Fatalf("write files: %v", err)
		}
		fmt.Printf("wrote %d users, %d usage rows, %d recharges, %d balances to %s\n",
			len(data.Users), len(data.Usage), len(data.Recharges), len(data.Balances), *outDir)
		return
	}
	token, err := auth.GenerateToken(*secret, "simulator", time.Hour)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}
	if err := upload(*baseURL, token, data); err != nil {
		log.Fatalf("upload: %v", err)
	}
	fmt.Printf("loaded %d users, %d usage rows, %d recharges, %d balances into %s\n",
		len(data.Users), len(data.Usage), len(data.Recharges), len(data.Balances), *baseURL)
}

func simulate(rng *rand.Rand, users []seedUser, start, end time.Time) dataset {
	var data dataset
	windowDays := int(end.Sub(start).Hours() / 24)
	if windowDays < 1 {
		windowDays = 1
	}

	for _, user := range users {
		userID := uuid.NewString()
		row := map[string]any{
			"id":          userID,
			"phoneNumber": user.PhoneNumber,
			"bonusPlan":   user.BonusPlan,
		}
		if user.Username != nil {
			row["username"] = *user.Username
		}
		data.Users = append(data.Users, row)

		seg := segments[rng.Intn(len(segments))]
		rechargeCount := distuv.Poisson{Lambda: seg.avgRecharge, Src: rng}
		rechargeAmount := distuv.Normal{Mu: seg.avgRecharge, Sigma: seg.stdRecharge, Src: rng}
		dataAmount := distuv.Normal{Mu: seg.avgDataMB, Sigma: seg.stdDataMB, Src: rng}
		dailyData := distuv.Normal{Mu: 100, Sigma: 50, Src: rng}

		var monetary, bonus, dataMB float64
		balance := map[string]any{"userId": userID}

		for i := 0; i < int(rechargeCount.Rand()); i++ {
			date := start.AddDate(0, 0, rng.Intn(windowDays+1))
			recharge := map[string]any{
				"userId":       userID,
				"rechargeDate": date.Format("2006-01-02"),
			}
			if rng.Intn(2) == 0 {
				amount := positiveAmount(round2(math.Abs(rechargeAmount.Rand())))
				added := round2(amount * float64(user.BonusPlan))
				exp := monetaryExpDays[rng.Intn(len(monetaryExpDays))]
				recharge["rechargeAmount"] = amount
				recharge["bonusAdded"] = added
				recharge["monetaryExpiryDate"] = date.AddDate(0, 0, exp.recharge).Format("2006-01-02")
				recharge["bonusExpiryDate"] = date.AddDate(0, 0, exp.bonus).Format("2006-01-02")
				monetary += amount
				bonus += added
				balance["monetaryExpiryDate"] = recharge["monetaryExpiryDate"]
				balance["bonusExpiryDate"] = recharge["bonusExpiryDate"]
			} else {
				added := positiveAmount(round2(math.Abs(dataAmount.Rand())))
				recharge["dataAddedMB"] = added
				recharge["dataExpiryDate"] = date.AddDate(0, 0, dataExpDays[rng.Intn(len(dataExpDays))]).Format("2006-01-02")
				dataMB += added
				balance["dataExpiryDate"] = recharge["dataExpiryDate"]
			}
			data.Recharges = append(data.Recharges, recharge)
		}

		usageEvents := 50 + rng.Intn(51)
		for i := 0; i < usageEvents; i++ {
			date := start.AddDate(0, 0, rng.Intn(windowDays+1))
			calls := float64(rng.Intn(31))
			sms := float64(rng.Intn(11))
			cost := calls*0.035 + sms*0.025
			switch {
			case bonus >= cost:
				bonus -= cost
			case bonus+monetary >= cost:
				monetary -= cost - bonus
				bonus = 0
			default:
				continue // subscriber could not afford this event
			}
			data.Usage = append(data.Usage, map[string]any{
				"userId":         userID,
				"usageTimestamp": date.Format("2006-01-02"),
				"callsMinutes":   calls,
				"smsCount":       sms,
				"dataUsageMB":    round2(math.Abs(dailyData.Rand())),
			})
		}

		balance["monetaryBalance"] = round2(monetary)
		balance["bonusBalance"] = round2(bonus)
		balance["dataBalanceMB"] = round2(dataMB)
		data.Balances = append(data.Balances, balance)
	}
	return data
}

func writeFiles(dir string, data dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := map[string]any{
		"users.json":            data.Users,
		"usage_history.json":    data.Usage,
		"recharge_history.json": data.Recharges,
		"balances.json":         data.Balances,
	}
	for name, payload := range files {
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), encoded, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func upload(baseURL, token string, data dataset) error {
	// users first so their ids exist, then histories, then the balances
	users := make([]map[string]any, 0, len(data.Users))
	phoneByID := make(map[string]string, len(data.Users))
	for _, user := range data.Users {
		phoneByID[user["id"].(string)] = user["phoneNumber"].(string)
		clean := map[string]any{
			"phoneNumber": user["phoneNumber"],
			"bonusPlan":   user["bonusPlan"],
		}
		if username, ok := user["username"]; ok {
			clean["username"] = username
		}
		users = append(users, clean)
	}
	created, err := postUsers(baseURL, token, users)
	if err != nil {
		return err
	}
	// the API mints its own ids; remap the generated rows onto them
	idByPhone := make(map[string]string, len(created))
	for _, user := range created {
		idByPhone[user.PhoneNumber] = user.ID
	}
	remap := func(rows []map[string]any) error {
		for _, row := range rows {
			phone, ok := phoneByID[row["userId"].(string)]
			if !ok {
				return fmt.Errorf("unknown simulated user id %v", row["userId"])
			}
			serverID, ok := idByPhone[phone]
			if !ok {
				return fmt.Errorf("server returned no id for phone %s", phone)
			}
			row["userId"] = serverID
		}
		return nil
	}
	for _, rows := range [][]map[string]any{data.Usage, data.Recharges, data.Balances} {
		if err := remap(rows); err != nil {
			return err
		}
	}

	for path, payload := range map[string][]map[string]any{
		"/api/usageHistory": data.Usage,
		"/api/recharges":    data.Recharges,
		"/api/balances":     data.Balances,
	} {
		if err := post(baseURL+path, token, payload, nil); err != nil {
			return err
		}
	}
	return nil
}

type createdUser struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
}

func postUsers(baseURL, token string, users []map[string]any) ([]createdUser, error) {
	var response struct {
		Users []createdUser `json:"users"`
	}
	if err := post(baseURL+"/api/users", token, users, &response); err != nil {
		return nil, err
	}
	return response.Users, nil
}

func post(url, token string, payload any, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("POST %s: unexpected status %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// positiveAmount floors a sampled value at 0.01; the API rejects a recharge
// that adds nothing.
func positiveAmount(value float64) float64 {
	if value < 0.01 {
		return 0.01
	}
	return value
}
