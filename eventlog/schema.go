// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventlog

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	runID TEXT,
	kind INTEGER NOT NULL,
	netuid INTEGER NOT NULL,
	phase INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	detail TEXT
);

CREATE INDEX IF NOT EXISTS eventNetuidIndex ON event(netuid);
CREATE INDEX IF NOT EXISTS eventKindIndex ON event(kind);
`
