/*
 Copyright (c) 2025 Arenadata Softwer LLC.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package composer

import (
	"strconv"
	"strings"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/interactive"
)

type Engine string

const (
	EngineNone     Engine = "None (use default SQLite)"
	EnginePostgres Engine = "PostgreSQL"
	EngineMySQL    Engine = "MySQL"

	DBTypeKey   = "DB_TYPE"
	DefaultHost = "localhost"

	PostgresPort = 5432
	MySQLPort    = 3306
)

var Engines = []Engine{EngineNone, EnginePostgres, EngineMySQL}

func (e Engine) Prefix() string {
	switch e {
	case EnginePostgres:
		return "DB_POSTGRESDB"
	case EngineMySQL:
		return "DB_MYSQL"
	}
	return ""
}

func (e Engine) DefaultPort() int {
	switch e {
	case EnginePostgres:
		return PostgresPort
	case EngineMySQL:
		return MySQLPort
	}
	return 0
}

// Type is the DB_TYPE value: the lowercased engine name with a "db" suffix.
func (e Engine) Type() string {
	return strings.ToLower(string(e)) + "db"
}

type DatabaseConfig struct {
	Engine   Engine
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d DatabaseConfig) Entries() []envfile.Entry {
	if d.Engine == EngineNone || len(d.Engine) == 0 {
		return nil
	}

	prefix := d.Engine.Prefix()
	return []envfile.Entry{
		{Key: DBTypeKey, Value: d.Engine.Type()},
		{Key: prefix + "_HOST", Value: d.Host},
		{Key: prefix + "_PORT", Value: d.Port},
		{Key: prefix + "_DATABASE", Value: d.Database},
		{Key: prefix + "_USER", Value: d.User},
		{Key: prefix + "_PASSWORD", Value: d.Password},
	}
}

// CollectDatabase asks for the engine and, unless the default SQLite is kept,
// its connection settings. Values are taken as typed.
func (c *Composer) CollectDatabase() ([]envfile.Entry, error) {
	opts := make([]string, len(Engines))
	for i, e := range Engines {
		opts[i] = string(e)
	}

	engine, err := interactive.Select(c.asker, "Which database do you want to use?", opts, string(EngineNone))
	if err != nil {
		return nil, err
	}

	cfg := DatabaseConfig{Engine: Engine(engine)}
	if cfg.Engine == EngineNone {
		return nil, nil
	}

	port := strconv.Itoa(cfg.Engine.DefaultPort())
	err = interactive.Actions{
		interactive.NewAction(c.asker, &interactive.Question{Message: "Database Host:", Default: DefaultHost}, &cfg.Host),
		interactive.NewAction(c.asker, &interactive.Question{Message: "Database Port:", Default: port}, &cfg.Port),
		interactive.NewAction(c.asker, &interactive.Question{Message: "Database Name:"}, &cfg.Database),
		interactive.NewAction(c.asker, &interactive.Question{Message: "Database User:"}, &cfg.User),
		interactive.NewAction(c.asker, &interactive.Question{Message: "Database Password:", Kind: interactive.KindPassword}, &cfg.Password),
	}.Run()
	if err != nil {
		return nil, err
	}

	return cfg.Entries(), nil
}
