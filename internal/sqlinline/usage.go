package sqlinline

const QCreateGenerationEvents = `--sql e263327c-135b-4b48-9d22-875287b06771
create table if not exists generation_events (
  id            uuid primary key,
  request_id    text not null default '',
  style         text not null default '',
  prompt_length int not null default 0,
  success       boolean not null,
  latency_ms    int not null default 0,
  country       text not null default '',
  error         text not null default '',
  created_at    timestamptz not null default now()
);
create index if not exists generation_events_created_at_idx on generation_events (created_at);
`

const QInsertGenerationEvent = `--sql bba9e4d8-f5fd-40c0-91a7-0b78a933b553
insert into generation_events(id, request_id, style, prompt_length, success, latency_ms, country, error, created_at)
values ($1::uuid, $2::text, $3::text, $4::int, $5::boolean, $6::int, $7::text, $8::text, $9::timestamptz);
`

const QGenerationSummary = `--sql 656cf647-2fb8-4430-b2b1-d688a62cb831
select
  count(*),
  count(*) filter (where success),
  count(*) filter (where not success),
  count(*) filter (where created_at > now() - interval '24 hours'),
  coalesce(round(avg(latency_ms) filter (where success)), 0)::bigint
from generation_events;
`
