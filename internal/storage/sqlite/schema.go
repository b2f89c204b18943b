package sqlite

const schema = `
-- Members table
CREATE TABLE IF NOT EXISTS members (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL DEFAULT '',
    api_token TEXT NOT NULL UNIQUE,
    donation_total REAL NOT NULL DEFAULT 0 CHECK(donation_total >= 0),
    membership_level TEXT NOT NULL DEFAULT 'free'
        CHECK(membership_level IN ('free', 'supporter', 'champion', 'guardian')),
    reward_points INTEGER NOT NULL DEFAULT 0 CHECK(reward_points >= 0),
    coach_id TEXT REFERENCES coaches(id),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_members_token ON members(api_token);
CREATE INDEX IF NOT EXISTS idx_members_coach ON members(coach_id);

-- Coaches table
CREATE TABLE IF NOT EXISTS coaches (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Donations table
CREATE TABLE IF NOT EXISTS donations (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
    amount REAL NOT NULL CHECK(amount > 0),
    donation_type TEXT NOT NULL DEFAULT 'one_time'
        CHECK(donation_type IN ('one_time', 'monthly')),
    status TEXT NOT NULL DEFAULT 'pending'
        CHECK(status IN ('pending', 'completed', 'failed')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_donations_member ON donations(member_id);
CREATE INDEX IF NOT EXISTS idx_donations_status ON donations(status);

-- Journeys table
CREATE TABLE IF NOT EXISTS journeys (
    id TEXT PRIMARY KEY,
    member_id TEXT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
    journey_type TEXT NOT NULL
        CHECK(journey_type IN ('crisis_recovery', 'comprehensive', 'targeted', 'maintenance')),
    estimated_completion DATETIME NOT NULL,
    current_phase TEXT NOT NULL DEFAULT '',
    overall_progress REAL NOT NULL DEFAULT 0 CHECK(overall_progress >= 0 AND overall_progress <= 100),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_journeys_member ON journeys(member_id);

-- Phases table
CREATE TABLE IF NOT EXISTS phases (
    id TEXT PRIMARY KEY,
    journey_id TEXT NOT NULL REFERENCES journeys(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    phase_order INTEGER NOT NULL CHECK(phase_order >= 1),
    is_current INTEGER NOT NULL DEFAULT 0,
    UNIQUE(journey_id, phase_order)
);

CREATE INDEX IF NOT EXISTS idx_phases_journey ON phases(journey_id);

-- Recommendations table
CREATE TABLE IF NOT EXISTS recommendations (
    id TEXT PRIMARY KEY,
    journey_id TEXT NOT NULL REFERENCES journeys(id) ON DELETE CASCADE,
    phase_id TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
    rec_type TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 2,
    estimated_minutes INTEGER NOT NULL DEFAULT 0,
    progress REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
    reasoning TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_recommendations_journey ON recommendations(journey_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_phase ON recommendations(phase_id);

-- Insights table
CREATE TABLE IF NOT EXISTS insights (
    id TEXT PRIMARY KEY,
    journey_id TEXT NOT NULL REFERENCES journeys(id) ON DELETE CASCADE,
    insight_type TEXT NOT NULL,
    message TEXT NOT NULL DEFAULT '',
    confidence REAL NOT NULL CHECK(confidence >= 0 AND confidence <= 1),
    impact_level TEXT NOT NULL CHECK(impact_level IN ('low', 'medium', 'high'))
);

CREATE INDEX IF NOT EXISTS idx_insights_journey ON insights(journey_id);

-- Email queue table
CREATE TABLE IF NOT EXISTS email_queue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    recipient TEXT NOT NULL,
    subject TEXT NOT NULL,
    body TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'queued' CHECK(status IN ('queued', 'sent', 'failed')),
    attempts INTEGER NOT NULL DEFAULT 0,
    last_error TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    sent_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_email_queue_status ON email_queue(status);

-- Job locks table
-- Advisory locks for the periodic sweeps: a sweep run acquires its
-- job's row before processing and releases it after, so an overlapping
-- run (slow prior pass, or a second process) skips the pass.
CREATE TABLE IF NOT EXISTS job_locks (
    job TEXT PRIMARY KEY,
    holder TEXT NOT NULL,
    acquired_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at DATETIME NOT NULL
);
`
